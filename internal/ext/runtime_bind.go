// Runtime Go binding: runtime_bind.go binds a Go function value directly
// into a namespace.Namespace at process start, via reflection; no Go
// binding source is generated and nothing shells out to `go build`.
// coreclj's driver boots from a single process and loads BindSpec-described
// functions straight off the reflect.Value.
package ext

import (
	"context"
	"fmt"
	"reflect"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/value"
)

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// BindFunc wraps a Go function as a value.BuiltinFn and interns it into ns
// under spec.As, honoring BindSpec.SkipContext and BindSpec.ErrorToResult.
// fn must be a func value; BindAll passes entries from the compiled-in
// registry, and callers holding any other plain Go func (e.g. from a
// statically linked driver) can bind it directly.
func BindFunc(h *gc.Heap, ns *namespace.Namespace, spec BindSpec, fn interface{}) error {
	if spec.As == "" {
		return fmt.Errorf("ext: BindFunc requires an As name")
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("ext: BindFunc: %s is not a function (got %s)", spec.As, rv.Kind())
	}
	rt := rv.Type()

	name := spec.As
	builtin := &value.BuiltinFn{
		Name: name,
		Fn: func(args []value.Value) (value.Value, error) {
			in, err := buildArgs(rt, spec, args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out := rv.Call(in)
			return convertResults(h, spec, rt, out)
		},
	}
	v := ns.Intern(name)
	v.Root = builtin
	v.Doc = fmt.Sprintf("bound from Go func (%s)", rt.String())
	return nil
}

func buildArgs(rt reflect.Type, spec BindSpec, args []value.Value) ([]reflect.Value, error) {
	numIn := rt.NumIn()
	skipCtx := spec.SkipContext && numIn > 0 && rt.In(0) == contextType
	want := numIn
	if skipCtx {
		want--
	}
	if !rt.IsVariadic() && len(args) != want {
		return nil, fmt.Errorf("wanted %d args, got %d", want, len(args))
	}

	in := make([]reflect.Value, 0, numIn)
	if skipCtx {
		in = append(in, reflect.ValueOf(context.Background()))
	}
	for i, a := range args {
		paramIdx := i
		if skipCtx {
			paramIdx++
		}
		var paramType reflect.Type
		switch {
		case rt.IsVariadic() && paramIdx >= numIn-1:
			paramType = rt.In(numIn - 1).Elem()
		default:
			paramType = rt.In(paramIdx)
		}
		gv, err := goValueOf(a, paramType)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		in = append(in, gv)
	}
	return in, nil
}

// goValueOf converts a runtime Value into a reflect.Value of the requested
// Go type, covering the scalar Kinds a bound Go function parameter list can
// plausibly ask for; collections are left to callers that bind narrower
// signatures, matching spec.md's scalar-first FFI scope.
func goValueOf(v value.Value, want reflect.Type) (reflect.Value, error) {
	switch x := v.(type) {
	case value.Int:
		switch want.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			rv := reflect.New(want).Elem()
			rv.SetInt(int64(x))
			return rv, nil
		case reflect.Float32, reflect.Float64:
			rv := reflect.New(want).Elem()
			rv.SetFloat(float64(x))
			return rv, nil
		}
	case value.Float:
		if want.Kind() == reflect.Float32 || want.Kind() == reflect.Float64 {
			rv := reflect.New(want).Elem()
			rv.SetFloat(float64(x))
			return rv, nil
		}
	case value.Bool:
		if want.Kind() == reflect.Bool {
			return reflect.ValueOf(bool(x)), nil
		}
	case *value.Str:
		if want.Kind() == reflect.String {
			return reflect.ValueOf(x.String()).Convert(want), nil
		}
	case value.Nil:
		return reflect.Zero(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", v, want)
}

// convertResults maps a Go function's return values back to a single
// runtime Value, applying ErrorToResult so (T, error) pairs come back as a
// two-element vector [result err] rather than a bare Go panic surface.
func convertResults(h *gc.Heap, spec BindSpec, rt reflect.Type, out []reflect.Value) (value.Value, error) {
	numOut := rt.NumOut()
	if numOut == 0 {
		return value.NilValue, nil
	}
	hasErr := rt.Out(numOut-1) == errorType
	var errVal error
	if hasErr {
		if e, ok := out[numOut-1].Interface().(error); ok {
			errVal = e
		}
		out = out[:numOut-1]
	}
	if hasErr && !spec.ErrorToResult && errVal != nil {
		return nil, errVal
	}

	var result value.Value = value.NilValue
	if len(out) == 1 {
		result = valueOfGo(h, out[0])
	} else if len(out) > 1 {
		items := make([]value.Value, len(out))
		for i, rv := range out {
			items[i] = valueOfGo(h, rv)
		}
		result = value.NewVector(h, items)
	}

	if hasErr && spec.ErrorToResult {
		var errResult value.Value = value.NilValue
		if errVal != nil {
			errResult = value.NewString(h, errVal.Error())
		}
		return value.NewVector(h, []value.Value{result, errResult}), nil
	}
	return result, nil
}

func valueOfGo(h *gc.Heap, rv reflect.Value) value.Value {
	switch rv.Kind() {
	case reflect.String:
		return value.NewString(h, rv.String())
	case reflect.Bool:
		return value.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Int(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return value.Float(rv.Float())
	default:
		if rv.IsZero() {
			return value.NilValue
		}
		return value.NewString(h, fmt.Sprintf("%v", rv.Interface()))
	}
}
