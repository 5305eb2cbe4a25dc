// Command coreclj is a minimal driver for the runtime substrate: it reads
// a single source file (or a -e expression), reads each top-level form
// with internal/sreader, analyzes it, and hands the resulting node.Node off
// to whatever evaluator the caller links in via bridge.Invoker. On its own
// (no evaluator wired) it exercises the reader→analyzer pipeline and
// prints each analyzed node's Kind — enough to demo the core end to end
// without pulling in a full tree-walker or bytecode VM, which are
// explicitly out of scope (spec.md §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"

	"github.com/coreclj/coreclj/internal/analyzer"
	"github.com/coreclj/coreclj/internal/coreconfig"
	"github.com/coreclj/coreclj/internal/ext"
	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/gcstore"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/rpcdebug"
	"github.com/coreclj/coreclj/internal/sreader"
	"github.com/coreclj/coreclj/internal/value"
)

// noMacroInvoker rejects macro calls: the standalone driver has no
// evaluator wired in, so (defmacro ...) forms analyze but cannot expand.
type noMacroInvoker struct{}

func (noMacroInvoker) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return nil, fmt.Errorf("coreclj: no evaluator wired in; cannot invoke macro at analysis time")
}

func main() {
	var (
		configPath = flag.String("config", "", "path to coreclj.yaml (defaults built in if absent)")
		expr       = flag.String("e", "", "analyze a single expression instead of a file")
		statsOnly  = flag.Bool("stats", false, "print GC stats after analyzing and exit")
	)
	flag.Parse()

	cfg := coreconfig.Default()
	if *configPath != "" {
		loaded, err := coreconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "coreclj:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	h := gc.New(cfg.GC.InitialThreshold)
	defer h.Deinit()
	env := namespace.NewEnv(h)
	bootNamespaces(env, cfg)

	var store *gcstore.Store
	if cfg.Store.Enabled {
		s, err := gcstore.Open(cfg.Store.Path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "coreclj: gc store:", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	if cfg.Debug.Enabled {
		startDebugServer(h, env, cfg.Debug.Addr)
	}

	ns, _ := env.Find("user")

	for _, gb := range cfg.GoBind {
		if err := ext.BindAll(h, ns, gb.Pkg, gb.Funcs, gb.As); err != nil {
			fmt.Fprintln(os.Stderr, "coreclj: go_bind:", err)
			os.Exit(1)
		}
	}

	a := analyzer.New(env, ns, noMacroInvoker{})

	var src string
	switch {
	case *expr != "":
		src = *expr
	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "coreclj:", err)
			os.Exit(1)
		}
		src = string(data)
	default:
		fmt.Fprintln(os.Stderr, "usage: coreclj [-e expr | file] [-config path] [-stats]")
		os.Exit(2)
	}

	forms, err := sreader.ReadAll(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "coreclj: read error:", err)
		os.Exit(1)
	}

	var seq int64
	for _, f := range forms {
		n, err := a.Analyze(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, "coreclj: analysis error:", env.Errors.Last())
			os.Exit(1)
		}
		if !*statsOnly {
			printNode(n)
		}
		collectsBefore := h.Stats().CollectCount
		h.CollectIfNeeded(func(h *gc.Heap) {
			for _, v := range ns.Mappings() {
				value.TraceValue(h, v.Root)
			}
		})
		if store != nil && h.Stats().CollectCount != collectsBefore {
			seq++
			if err := store.RecordCollection(context.Background(), seq, h.Stats()); err != nil {
				fmt.Fprintln(os.Stderr, "coreclj: gc store:", err)
			}
		}
	}

	if *statsOnly {
		printStats(h.Stats())
	}
}

func bootNamespaces(env *namespace.Env, cfg *coreconfig.Config) {
	created := map[string]*namespace.Namespace{}
	for _, nc := range cfg.Namespaces {
		created[nc.Name] = env.FindOrCreate(nc.Name)
	}
	for _, nc := range cfg.Namespaces {
		ns := created[nc.Name]
		for alias, target := range nc.Aliases {
			if t, ok := created[target]; ok {
				ns.AddAlias(alias, t)
			}
		}
		for _, referred := range nc.Refer {
			if src, ok := created[referred]; ok {
				for name, v := range src.Mappings() {
					ns.Refer(name, v)
				}
			}
		}
	}
}

func startDebugServer(h *gc.Heap, env *namespace.Env, addr string) {
	if addr == "" {
		addr = ":0"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "coreclj: debug server:", err)
		return
	}
	svc, err := rpcdebug.New(h, env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "coreclj: debug server:", err)
		return
	}
	server := grpc.NewServer()
	svc.Register(server)
	go server.Serve(lis)
	fmt.Fprintln(os.Stderr, "coreclj: debug service listening on", lis.Addr())
}

func printNode(n node.Node) {
	fmt.Printf("node kind=%d\n", n.Kind())
}

func printStats(stats gc.Stats) {
	plain := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	if plain {
		fmt.Printf("bytes_allocated=%d alloc_count=%d collect_count=%d threshold=%d\n",
			stats.BytesAllocated, stats.AllocCount, stats.CollectCount, stats.Threshold)
		return
	}
	fmt.Printf("allocated %s across %s allocations, %s collections, threshold %s\n",
		humanize.Bytes(uint64(stats.BytesAllocated)),
		humanize.Comma(stats.AllocCount),
		humanize.Comma(stats.CollectCount),
		humanize.Bytes(uint64(stats.Threshold)),
	)
}
