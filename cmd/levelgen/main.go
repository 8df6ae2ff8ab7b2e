package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxelclimb/internal/bundle"
	"voxelclimb/internal/level"
	"voxelclimb/internal/metrics"
)

func main() {
	var (
		cfgPath     string
		count       int
		seed        uint64
		variant     string
		out         string
		compress    bool
		debug       bool
		codes       string
		triples     string
		metricsAddr string
		verbose     bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to generator configuration file (.json, .yaml)")
	flag.IntVar(&count, "count", 0, "number of levels to generate")
	flag.Uint64Var(&seed, "seed", 0, "base seed of the batch")
	flag.StringVar(&variant, "variant", "", "level variant: heightfield, voxel or branching")
	flag.StringVar(&out, "out", "", "output path, stdout when empty; a .zst suffix implies -compress")
	flag.BoolVar(&compress, "compress", false, "zstd-compress the output")
	flag.BoolVar(&debug, "debug", false, "include route cells and dead ends in the output")
	flag.StringVar(&codes, "sequence", "", "import a comma separated move code sequence instead of generating")
	flag.StringVar(&triples, "triples", "", "import semicolon separated dx,dy,dz steps instead of generating")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.BoolVar(&verbose, "v", false, "log every rejected attempt")
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			cfg.Batch.Count = count
		case "seed":
			cfg.Generator.Seed = seed
		case "variant":
			cfg.Generator.Variant = variant
		case "out":
			cfg.Output.Path = out
		case "compress":
			cfg.Output.Compress = compress
		case "debug":
			cfg.Output.Debug = debug
		case "metrics-addr":
			cfg.Metrics.ListenAddr = metricsAddr
		}
	})
	if strings.HasSuffix(cfg.Output.Path, ".zst") {
		cfg.Output.Compress = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := signalContext()
	defer cancel()

	opts := []level.Option{level.WithLogger(logger)}
	if cfg.Metrics.ListenAddr != "" {
		reg := prometheus.NewRegistry()
		rec, err := metrics.NewRecorder(reg, cfg.Metrics.Namespace)
		if err != nil {
			log.Fatalf("register metrics: %v", err)
		}
		opts = append(opts, level.WithMetrics(rec))
		stop := serveMetrics(cfg.Metrics.ListenAddr, reg, logger)
		defer stop()
	}
	gen := level.NewGenerator(cfg.Generator, opts...)

	runCtx := ctx
	if timeout := cfg.Batch.Timeout.Duration(); timeout > 0 {
		var runCancel context.CancelFunc
		runCtx, runCancel = context.WithTimeout(ctx, timeout)
		defer runCancel()
	}

	start := time.Now()
	levels, err := produce(runCtx, gen, cfg.Batch.Count, codes, triples)
	if err != nil {
		log.Fatalf("generate levels: %v", err)
	}

	fallbacks := 0
	for _, lvl := range levels {
		if lvl.Fallback {
			fallbacks++
		}
	}
	logger.Info("levels generated",
		"count", len(levels),
		"variant", gen.Config().Variant,
		"fallbacks", fallbacks,
		"elapsed", time.Since(start).Round(time.Millisecond))

	bopts := bundle.Options{
		Compress: cfg.Output.Compress,
		Encode:   level.EncodeOptions{Debug: cfg.Output.Debug, Indent: cfg.Output.Indent},
	}
	if err := emit(cfg.Output.Path, levels, bopts); err != nil {
		log.Fatalf("write levels: %v", err)
	}
}

func produce(ctx context.Context, gen *level.Generator, count int, codes, triples string) ([]*level.Level, error) {
	switch {
	case codes != "" && triples != "":
		return nil, errors.New("-sequence and -triples are mutually exclusive")
	case codes != "":
		seq, err := parseCodes(codes)
		if err != nil {
			return nil, err
		}
		lvl, err := gen.ImportSequence(ctx, 0, seq)
		if err != nil {
			return nil, err
		}
		return []*level.Level{lvl}, nil
	case triples != "":
		steps, err := parseTriples(triples)
		if err != nil {
			return nil, err
		}
		lvl, err := gen.ImportTriples(ctx, 0, steps)
		if err != nil {
			return nil, err
		}
		return []*level.Level{lvl}, nil
	default:
		return gen.GenerateBatch(ctx, count)
	}
}

func emit(path string, levels []*level.Level, opts bundle.Options) error {
	if path != "" {
		return bundle.WriteFile(path, levels, opts)
	}
	data, err := level.Encode(levels, opts.Encode)
	if err != nil {
		return err
	}
	return bundle.Write(os.Stdout, data, opts.Compress)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
