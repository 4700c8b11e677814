// Command ctxmux runs one orchestration round over a set of built-in
// example backends and prints the combined context. It exists to exercise
// the orchestrator end to end; real integrations construct the
// orchestrator directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dusk-indust/ctxmux/internal/backend"
	"github.com/dusk-indust/ctxmux/internal/config"
	"github.com/dusk-indust/ctxmux/internal/orchestrator"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Query     string
	ConfigDir string
	Remember  bool
	Verbose   bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("ctxmux", flag.ContinueOnError)
	fs.StringVar(&flags.Query, "query", "example", "query to fan out to every backend")
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory containing ctxmux.yml")
	fs.BoolVar(&flags.Remember, "remember", false, "propagate the query back to update-capable backends")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable diagnostic output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}

	strat, err := cfg.BuildStrategy()
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	if flags.Verbose || cfg.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		opts = append(opts, orchestrator.WithLogger(logger))
	}

	orch, err := orchestrator.New(demoBackends(), strat, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()

	combined, err := orch.GatherAndCombine(ctx, flags.Query)
	if err != nil {
		return err
	}
	if combined == nil {
		fmt.Println("no context gathered")
		return nil
	}
	fmt.Println(combined)

	if flags.Remember {
		payload := map[string]string{"last_query": flags.Query}
		if err := orch.PropagateUpdate(ctx, payload); err != nil {
			return err
		}
	}
	return nil
}

// demoBackends wires the built-in example backends: an updatable memory
// store, a read-only document index, a fixed note, and a clock.
func demoBackends() []orchestrator.ContextFetcher {
	memory := backend.NewMemory(map[string]string{
		"example": "This is an example memory entry.",
		"default": "This is default memory context.",
	})

	docs := backend.NewDocIndex([]backend.Document{
		{ID: "doc-1", Content: "Document about orchestrating context providers."},
		{ID: "doc-2", Content: "Document about combining partial results."},
		{ID: "doc-3", Content: "Document about example queries."},
	})

	note := backend.NewStatic("ctxmux demo backend")

	clock := backend.FetchFunc(func(_ context.Context, _ any) (any, error) {
		return "queried at " + time.Now().Format(time.RFC3339), nil
	})

	return []orchestrator.ContextFetcher{memory, docs, note, clock}
}
