package ext

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
)

// registry is the fixed set of Go packages coreclj is compiled with and
// willing to expose to go_bind config entries. Unlike the teacher's ext
// pipeline — which shells out to `go build` against a generated binding
// file so arbitrary funxy.yaml deps can be vendored in — coreclj binds a
// single static binary at compile time, so go_bind selects functions from
// this in-process table rather than naming arbitrary import paths to fetch.
var registry = map[string]map[string]interface{}{
	"strings": {
		"ToUpper":    strings.ToUpper,
		"ToLower":    strings.ToLower,
		"TrimSpace":  strings.TrimSpace,
		"Contains":   strings.Contains,
		"HasPrefix":  strings.HasPrefix,
		"HasSuffix":  strings.HasSuffix,
		"Count":      strings.Count,
		"ReplaceAll": strings.ReplaceAll,
	},
	"strconv": {
		"Itoa": strconv.Itoa,
		"Atoi": strconv.Atoi,
	},
	"math": {
		"Sqrt": math.Sqrt,
		"Abs":  math.Abs,
		"Pow":  math.Pow,
		"Max":  math.Max,
		"Min":  math.Min,
	},
}

// BindAll walks a coreconfig.GoBindSpec-shaped list (pkg/funcs/as) and
// interns each named function into ns as a builtin_fn. Functions are looked
// up in the compiled-in registry table above; a package or function name
// missing from that table is an error.
func BindAll(h *gc.Heap, ns *namespace.Namespace, pkg string, funcs []string, as string) error {
	table, ok := registry[pkg]
	if !ok {
		return fmt.Errorf("ext: unknown go_bind package %q (not in the compiled-in registry)", pkg)
	}
	prefix := as
	if prefix != "" {
		prefix += "-"
	}
	for _, name := range funcs {
		fn, ok := table[name]
		if !ok {
			return fmt.Errorf("ext: package %q has no registered function %q", pkg, name)
		}
		spec := BindSpec{As: prefix + lowerFirst(name)}
		if err := BindFunc(h, ns, spec, fn); err != nil {
			return fmt.Errorf("ext: binding %s.%s: %w", pkg, name, err)
		}
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
