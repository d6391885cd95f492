package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eigen-ai-labs/qqr/pkg/config"
	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/logging"
	"github.com/eigen-ai-labs/qqr/pkg/metrics"
	"github.com/eigen-ai-labs/qqr/pkg/registry"
	"github.com/eigen-ai-labs/qqr/pkg/retry"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
	"github.com/eigen-ai-labs/qqr/pkg/toolcache"
	"github.com/eigen-ai-labs/qqr/pkg/tourney"
)

// RunCmd scores one group of candidates with a named tournament
// algorithm, printing the resulting length-G reward vector.
type RunCmd struct {
	Algorithm string `arg:"" help:"Tournament algorithm (e.g., round_robin, swiss, single_elimination)." required:""`
	GroupFile string `arg:"" help:"JSON file containing the group: {\"query\": ..., \"predictions\": [[{role,content},...],...]}." type:"existingfile" name:"group-file"`

	ConfigFile string `help:"YAML config file path." type:"existingfile" name:"config-file"`
	Profile    string `help:"Named profile to apply from the config file." name:"profile"`

	MaxRounds int           `help:"Swiss round cap (0 = derive from group size)." name:"max-rounds"`
	Seed      int64         `help:"Seed the driver's RNG for reproducible pairing." name:"seed"`
	Timeout   time.Duration `help:"Overall run timeout." default:"10m"`

	Format string `help:"Output format." enum:"json,jsonl,csv,txt" default:"json" short:"f"`
	Output string `help:"Write rewards to this file instead of stdout." short:"o" type:"path"`

	MetricsAddr string `help:"Serve Prometheus-format judge-call metrics on this address while the run executes (e.g. ':9090'). Unset disables the server." name:"metrics-addr"`

	Verbose bool `help:"Verbose logging." short:"v"`
}

func (r *RunCmd) Run() error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	logging.Configure(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)

	group, err := loadGroup(r.GroupFile)
	if err != nil {
		return fmt.Errorf("failed to load group file: %w", err)
	}

	m := &metrics.Metrics{}
	j, err := buildJudge(cfg, m)
	if err != nil {
		return fmt.Errorf("failed to build judge: %w", err)
	}

	driver, err := buildDriver(r.Algorithm, j, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := r.setupContext()
	defer cancel()

	if r.MetricsAddr != "" {
		stopMetrics := serveMetrics(r.MetricsAddr, m)
		defer stopMetrics()
	}

	slog.Info("run starting", "algorithm", r.Algorithm, "group_size", group.Size())
	rewards, err := driver.Compute(ctx, group)
	if err != nil {
		return fmt.Errorf("tournament run failed: %w", err)
	}

	return writeRewards(rewards, r.Format, r.Output)
}

func (r *RunCmd) setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() { stop(); cancel() }
}

func (r *RunCmd) loadConfig() (*config.Config, error) {
	cfg := &config.Config{
		Tournament: config.TournamentConfig{Algorithm: r.Algorithm, MaxRounds: r.MaxRounds, Seed: r.Seed},
		Judge:      config.JudgeConfig{GeneratorType: "test.Blank"},
		Log:        config.LogConfig{Level: "info", Format: "text"},
	}
	if r.Verbose {
		cfg.Log.Level = "debug"
	}

	if r.ConfigFile == "" {
		return cfg, nil
	}

	var fileCfg *config.Config
	var err error
	if r.Profile != "" {
		fileCfg, err = config.LoadConfigWithProfile(r.ConfigFile, r.Profile)
	} else {
		fileCfg, err = config.LoadConfig(r.ConfigFile)
	}
	if err != nil {
		return nil, err
	}

	cfg.Merge(fileCfg)
	// CLI flags win over the file for algorithm/seed/rounds when set explicitly.
	if r.Algorithm != "" {
		cfg.Tournament.Algorithm = r.Algorithm
	}
	if r.MaxRounds != 0 {
		cfg.Tournament.MaxRounds = r.MaxRounds
	}
	if r.Seed != 0 {
		cfg.Tournament.Seed = r.Seed
	}
	return cfg, nil
}

func loadGroup(path string) (*sample.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g sample.Group
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid group JSON: %w", err)
	}
	return &g, nil
}

func buildJudge(cfg *config.Config, m *metrics.Metrics) (judge.Judge, error) {
	j, err := judge.NewLLMJudge(registry.Config{
		"generator_type": cfg.Judge.GeneratorType,
		"model":          cfg.Judge.Model,
	})
	if err != nil {
		return nil, err
	}

	var wrapped judge.Judge = j
	if cfg.Judge.Retry.MaxAttempts > 0 {
		retryCfg, err := parseRetryConfig(cfg.Judge.Retry)
		if err != nil {
			return nil, err
		}
		wrapped = judge.WithRetry(wrapped, retryCfg)
	}

	if cfg.Judge.CacheTTL != "" {
		ttl, err := time.ParseDuration(cfg.Judge.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache := toolcache.NewCache(ttl, 10_000, nil)
		wrapped = toolcache.New(wrapped, cfg.Judge.GeneratorType, cfg.Judge.MaxConcurrency, toolcache.WithCache(cache), toolcache.WithMetrics(m))
	} else if cfg.Judge.MaxConcurrency > 0 {
		wrapped = toolcache.New(wrapped, cfg.Judge.GeneratorType, cfg.Judge.MaxConcurrency)
	}

	return metrics.InstrumentJudge(wrapped, m), nil
}

// serveMetrics starts a background HTTP server exposing m in Prometheus
// text format at /metrics, returning a function that shuts it down.
func serveMetrics(addr string, m *metrics.Metrics) func() {
	exporter := metrics.NewPrometheusExporter(m)
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server exited", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func parseRetryConfig(rc config.RetryConfig) (retry.Config, error) {
	var initialDelay, maxDelay time.Duration
	var err error
	if rc.InitialDelay != "" {
		initialDelay, err = time.ParseDuration(rc.InitialDelay)
		if err != nil {
			return retry.Config{}, err
		}
	}
	if rc.MaxDelay != "" {
		maxDelay, err = time.ParseDuration(rc.MaxDelay)
		if err != nil {
			return retry.Config{}, err
		}
	}
	return retry.Config{
		MaxAttempts:  rc.MaxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		Multiplier:   rc.Multiplier,
		Jitter:       rc.Jitter,
	}, nil
}

// buildDriver instantiates the named driver. Swiss and double-elimination
// take a seedable *rand.Rand for reproducible pairing, which the generic
// registry factory signature has no room for, so a requested seed routes
// through their typed *Seeded constructors instead of tourney.Create.
func buildDriver(algorithm string, j judge.Judge, cfg *config.Config) (tourney.Driver, error) {
	key := algorithm
	if idx := strings.IndexByte(algorithm, '/'); idx >= 0 {
		key = algorithm[:idx]
	}

	if cfg.Tournament.Seed != 0 {
		rng := rand.New(rand.NewSource(cfg.Tournament.Seed))
		switch key {
		case "swiss":
			return tourney.NewSwissSeeded(j, cfg.Tournament.MaxRounds, rng), nil
		case "double_elimination":
			return tourney.NewDoubleEliminationSeeded(j, rng), nil
		}
	}

	driver, err := tourney.Create(algorithm, j)
	if err != nil {
		return nil, err
	}
	if sw, ok := driver.(*tourney.Swiss); ok && cfg.Tournament.MaxRounds > 0 {
		sw.MaxRounds = cfg.Tournament.MaxRounds
	}
	return driver, nil
}

func writeRewards(rewards []float64, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "jsonl":
		enc := json.NewEncoder(out)
		for _, r := range rewards {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	case "csv":
		w := csv.NewWriter(out)
		row := make([]string, len(rewards))
		for i, r := range rewards {
			row[i] = fmt.Sprintf("%.6f", r)
		}
		if err := w.Write(row); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	case "txt":
		for _, r := range rewards {
			fmt.Fprintf(out, "%.6f\n", r)
		}
	default: // json
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rewards); err != nil {
			return err
		}
	}
	return nil
}
