// Command skipbench drives a concurrent insert/remove/search workload
// against a skiplist.OrderedMap and reports whether the result stayed
// sorted. skipbench is a driver/harness, not part of the skip-list
// algorithm itself.
//
// Usage:
//
//	skipbench [flags]
//
// The flags are:
//
//	-mode
//		Which variant to drive: "locked" (default) or "fat".
//	-workers
//		Number of goroutines to run concurrently. Defaults to 8.
//	-keys
//		Size of the key range [0, keys). Defaults to 20000.
//	-maxlevel
//		Tower height cap passed to the skip list. Defaults to 16.
//	-p
//		Level-generator success probability. Defaults to 0.5.
//	-config
//		Optional workload-plan file (JSON, validated against an embedded
//		schema). When given, the plan it holds replaces the one built from
//		-workers, -keys, -maxlevel and -p; fields it omits are zero. -mode
//		still applies.
//	-report
//		Optional path to write a YAML run summary to.
//	-dump
//		Print the map's per-level structure after the run.
//	-level
//		slog level: "debug", "info" (default), "warn", or "error".
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/ocsl/skiplist/skiplist"
	"github.com/ocsl/skiplist/workload"
)

func main() {
	mode := flag.String("mode", "locked", `variant to drive: "locked" or "fat"`)
	workers := flag.Int("workers", 8, "number of concurrent goroutines")
	keys := flag.Int("keys", 20000, "size of the key range [0, keys)")
	maxLevel := flag.Int("maxlevel", skiplist.DefaultMaxLevel, "tower height cap")
	p := flag.Float64("p", skiplist.DefaultProbability, "level-generator success probability")
	configPath := flag.String("config", "", "optional workload-plan file")
	reportPath := flag.String("report", "", "optional path to write a YAML run summary to")
	dump := flag.Bool("dump", false, "print the map's per-level structure after the run")
	levelFlag := flag.String("level", "info", `slog level: "debug", "info", "warn", or "error"`)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*levelFlag)})))

	plan := workload.Plan{
		Workers:     *workers,
		KeyRange:    *keys,
		MaxLevel:    *maxLevel,
		Probability: *p,
		Seed:        time.Now().UnixNano(),
		Mix:         workload.Mix{Insert: 5, Remove: 2, Search: 3},
	}
	if *configPath != "" {
		loaded, err := workload.Load(*configPath)
		if err != nil {
			log.Fatalf("invalid workload plan: %v", err)
		}
		plan = loaded
		slog.Info("loaded workload plan", "path", *configPath)
	}

	var m skiplist.OrderedMap[int, int]
	switch *mode {
	case "locked":
		m = skiplist.NewLocked[int, int](plan.MaxLevel, plan.Probability)
	case "fat":
		m = skiplist.NewFat[int, int](plan.MaxLevel, plan.Probability)
	default:
		log.Fatalf("unknown -mode %q, want \"locked\" or \"fat\"", *mode)
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-ctrlc
		slog.Warn("interrupted, winding down")
		close(stop)
	}()

	slog.Info("starting run", "mode", *mode, "workers", plan.Workers, "keys", plan.KeyRange)
	start := time.Now()
	inserts, removes, searches := runWorkload(m, plan, stop)
	elapsed := time.Since(start)

	report := summarize(m, *mode, plan, inserts, removes, searches, elapsed)
	slog.Info("run complete", "elapsed", elapsed, "finalCount", report.FinalCount, "sorted", report.Sorted)

	if !report.Sorted {
		slog.Error("sortedness check failed")
	}

	if *dump {
		m.Dump()
	}
	if *reportPath != "" {
		if err := report.WriteYAML(*reportPath); err != nil {
			log.Fatalf("writing report: %v", err)
		}
		slog.Info("wrote report", "path", *reportPath)
	}
}

// runWorkload spawns plan.Workers goroutines, each repeatedly choosing an
// operation per plan.Mix over a disjoint slice of the key range, until stop
// is closed or every worker finishes its share of the range.
func runWorkload(m skiplist.OrderedMap[int, int], plan workload.Plan, stop <-chan struct{}) (inserts, removes, searches int64) {
	var insertCount, removeCount, searchCount atomic.Int64
	var wg sync.WaitGroup

	perWorker := plan.KeyRange / plan.Workers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < plan.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(plan.Seed + int64(w)))
			base := w * perWorker

			for i := 0; i < perWorker; i++ {
				select {
				case <-stop:
					return
				default:
				}

				key := base + i
				switch plan.Pick(rng.Intn(1 << 30)) {
				case "insert":
					m.Insert(key, key)
					insertCount.Add(1)
				case "remove":
					m.Remove(key)
					removeCount.Add(1)
				default:
					m.Search(key)
					searchCount.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()
	return insertCount.Load(), removeCount.Load(), searchCount.Load()
}

// summarize snapshots the map with ForEach, checks that the snapshot is
// sorted (using x/exp/slices), and packages the result as a workload.Report.
// MaxLevelSeen is the configured plan.MaxLevel; node levels are not inspected.
func summarize(m skiplist.OrderedMap[int, int], mode string, plan workload.Plan, inserts, removes, searches int64, elapsed time.Duration) workload.Report {
	var keys []int
	m.ForEach(func(k, _ int) { keys = append(keys, k) })

	sorted := slices.IsSorted(keys)

	return workload.Report{
		Mode:         mode,
		Workers:      plan.Workers,
		KeyRange:     plan.KeyRange,
		Inserts:      inserts,
		Removes:      removes,
		Searches:     searches,
		FinalCount:   len(keys),
		Sorted:       sorted,
		MaxLevelSeen: plan.MaxLevel,
		Elapsed:      elapsed,
	}
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
