// mm-trace replays a CS:APP-style malloc-lab trace file against the
// allocator and reports throughput and utilization, grounded on the
// flag-driven CLI style of this module's ancestor tooling.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/karanheart96/mallockit/internal/mm"
	"github.com/karanheart96/mallockit/internal/mmtrace"
)

func main() {
	var (
		showHelp      bool
		traceFile     string
		strategy      string
		arenaCapacity uint64
		minRemainder  uint64
		debugChecks   bool
	)

	flag.BoolVar(&showHelp, "help", false, "show help information")
	flag.StringVar(&traceFile, "trace", "", "path to a trace file (required)")
	flag.StringVar(&strategy, "strategy", "first-fit", "placement strategy: first-fit or best-fit")
	flag.Uint64Var(&arenaCapacity, "arena-capacity", 0, "arena ceiling in bytes (0 = default)")
	flag.Uint64Var(&minRemainder, "min-remainder", 0, "split threshold in HF units (0 = default)")
	flag.BoolVar(&debugChecks, "debug", false, "walk invariants after every operation")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -trace <file> [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp || traceFile == "" {
		flag.Usage()

		if traceFile == "" && !showHelp {
			os.Exit(2)
		}

		return
	}

	if err := run(traceFile, strategy, uintptr(arenaCapacity), uintptr(minRemainder), debugChecks); err != nil {
		fmt.Fprintf(os.Stderr, "mm-trace: %v\n", err)
		os.Exit(1)
	}
}

func run(traceFile, strategyName string, arenaCapacity, minRemainder uintptr, debugChecks bool) error {
	f, err := os.Open(traceFile)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	ops, err := mmtrace.Parse(f)
	if err != nil {
		return err
	}

	strat, err := parseStrategy(strategyName)
	if err != nil {
		return err
	}

	opts := []mm.Option{mm.WithStrategy(strat), mm.WithDebugChecks(debugChecks)}
	if arenaCapacity != 0 {
		opts = append(opts, mm.WithArenaCapacity(arenaCapacity))
	}

	if minRemainder != 0 {
		opts = append(opts, mm.WithMinRemainder(minRemainder))
	}

	h := mm.New(opts...)
	if err := h.Init(); err != nil {
		return fmt.Errorf("initializing heap: %w", err)
	}
	defer h.Deinit()

	start := time.Now()

	result, err := mmtrace.Run(h, ops)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("trace:       %s\n", traceFile)
	fmt.Printf("strategy:    %s\n", strategyName)
	fmt.Printf("ops:         %d\n", result.OpsReplayed)
	fmt.Printf("elapsed:     %v (%.0f ops/sec)\n", elapsed, float64(result.OpsReplayed)/elapsed.Seconds())
	fmt.Printf("allocations: %d\n", result.Stats.AllocationCount)
	fmt.Printf("frees:       %d\n", result.Stats.FreeCount)
	fmt.Printf("arena bytes: %d (cap %d)\n", result.Stats.ArenaBytes, result.Stats.ArenaCapacity)
	fmt.Printf("peak in-use: %d\n", result.Stats.PeakBytesInUse)
	fmt.Printf("utilization: %.4f\n", result.Stats.Utilization())

	return nil
}

func parseStrategy(name string) (mm.Strategy, error) {
	switch name {
	case "first-fit", "":
		return mm.FirstFit, nil
	case "best-fit":
		return mm.BestFit, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want first-fit or best-fit)", name)
	}
}
