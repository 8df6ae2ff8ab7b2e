package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"voxelclimb/internal/config"
	"voxelclimb/internal/level"
	"voxelclimb/internal/pathfinding"
)

type levelJob struct {
	id   int
	seed uint64
}

func main() {
	var (
		cfgPath     = flag.String("config", "", "path to generator configuration file (.json, .yaml)")
		levels      = flag.Int("levels", 200, "number of levels to generate")
		concurrency = flag.Int("concurrency", runtime.NumCPU(), "number of concurrent workers")
		variant     = flag.String("variant", "", "level variant: heightfield, voxel or branching")
		width       = flag.Int("width", 0, "world width, configuration value when zero")
		depth       = flag.Int("depth", 0, "world depth, configuration value when zero")
		timeout     = flag.Duration("timeout", 5*time.Second, "per-level timeout")
		seed        = flag.Uint64("seed", 1337, "base seed of the run")
	)
	flag.Parse()

	if *levels <= 0 {
		fmt.Fprintln(os.Stderr, "levels must be positive")
		os.Exit(1)
	}
	if *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency must be positive")
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	gcfg := cfg.Generator
	gcfg.Seed = *seed
	if *variant != "" {
		gcfg.Variant = *variant
	}
	if *width > 0 {
		gcfg.Width = *width
	}
	if *depth > 0 {
		gcfg.Depth = *depth
	}

	search := &pathfinding.SearchMetrics{}
	gen := level.NewGenerator(gcfg, level.WithSearchMetrics(search))
	gcfg = gen.Config()

	jobs := make(chan levelJob)
	go func() {
		defer close(jobs)
		for i := 0; i < *levels; i++ {
			jobs <- levelJob{id: i, seed: level.SeedFor(gcfg.Seed, i)}
		}
	}()

	ctx := context.Background()

	var (
		wg            sync.WaitGroup
		totalAttempts int64
		totalPath     int64
		totalDuration int64
		generated     int64
		fallbacks     int64
		timeouts      int64
	)

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			levelCtx, cancel := context.WithTimeout(ctx, *timeout)
			startTime := time.Now()
			lvl, err := gen.Generate(levelCtx, job.id, job.seed)
			duration := time.Since(startTime)
			cancel()

			atomic.AddInt64(&totalDuration, int64(duration))
			if errors.Is(err, context.DeadlineExceeded) {
				atomic.AddInt64(&timeouts, 1)
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "level %d: %v\n", job.id, err)
				os.Exit(1)
			}
			atomic.AddInt64(&totalAttempts, int64(lvl.Attempts))
			if lvl.Fallback {
				atomic.AddInt64(&fallbacks, 1)
				continue
			}
			atomic.AddInt64(&generated, 1)
			atomic.AddInt64(&totalPath, int64(len(lvl.Path)))
		}
	}

	wg.Add(*concurrency)
	for i := 0; i < *concurrency; i++ {
		go worker()
	}

	startWall := time.Now()
	wg.Wait()
	wallDuration := time.Since(startWall)

	total := int64(*levels)
	gen64 := atomic.LoadInt64(&generated)
	fb := atomic.LoadInt64(&fallbacks)
	avgPath := 0.0
	if gen64 > 0 {
		avgPath = float64(atomic.LoadInt64(&totalPath)) / float64(gen64)
	}
	finished := gen64 + fb
	avgAttempts := 0.0
	if finished > 0 {
		avgAttempts = float64(atomic.LoadInt64(&totalAttempts)) / float64(finished)
	}
	snap := search.Snapshot()
	avgNodes := 0.0
	if snap.Searches > 0 {
		avgNodes = float64(snap.NodesExpanded) / float64(snap.Searches)
	}

	fmt.Println("== Level Generation Profile ==")
	fmt.Printf("Variant: %s\n", gcfg.Variant)
	fmt.Printf("World dimensions: %dx%dx%d\n", gcfg.Width, gcfg.Depth, gcfg.Height)
	fmt.Printf("Levels: %d\n", total)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Generated: %d, Fallbacks: %d, Timeouts: %d\n", gen64, fb, atomic.LoadInt64(&timeouts))
	fmt.Printf("Fallback ratio: %.2f%%\n", float64(fb)/float64(total)*100)
	fmt.Printf("Average attempts per level: %.2f\n", avgAttempts)
	fmt.Printf("Average route length (cells): %.2f\n", avgPath)
	fmt.Printf("Average per-level duration: %s\n", time.Duration(atomic.LoadInt64(&totalDuration)/total))
	fmt.Printf("Wall clock duration: %s\n", wallDuration)
	fmt.Printf("Validator searches: %d\n", snap.Searches)
	fmt.Printf("Average nodes expanded per search: %.2f\n", avgNodes)
}
