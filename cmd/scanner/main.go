package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/edgescan/config"
	"github.com/alejandrodnm/edgescan/internal/adapters/notify"
	"github.com/alejandrodnm/edgescan/internal/adapters/storage"
	"github.com/alejandrodnm/edgescan/internal/adapters/yahoo"
	"github.com/alejandrodnm/edgescan/internal/edge"
	"github.com/alejandrodnm/edgescan/internal/scanner"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	strategyKey := flag.String("strategy", "1", "strategy key or alias (see -list)")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	edgeMode := flag.Bool("edge", false, "run the legacy edge filter pipeline once and exit")
	list := flag.Bool("list", false, "list available strategies and exit")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line)")
	tickers := flag.String("tickers", "", "comma-separated tickers (overrides config universe)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	notifier := notify.NewConsole(*table || *edgeMode)

	if *list {
		notifier.PrintStrategies(strategy.List())
		return
	}

	strat, err := strategy.Get(*strategyKey)
	if err != nil {
		slog.Error("unknown strategy", "err", err)
		notifier.PrintStrategies(strategy.List())
		os.Exit(1)
	}

	universe := cfg.Universe()
	if *tickers != "" {
		universe = splitTickers(*tickers)
	}

	slog.Info("edgescan starting",
		"config", *configPath,
		"strategy", strat.Info().Name,
		"tickers", len(universe),
		"interval", cfg.ScanInterval(),
		"once", *once,
		"edge", *edgeMode,
	)

	client := yahoo.NewClient(cfg.Data.BaseURL, cfg.DataTimeout())
	provider := yahoo.NewProvider(client)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *edgeMode {
		runEdgePipeline(ctx, provider, notifier, universe, cfg.Filters)
		return
	}

	var store *storage.SQLiteStorage
	if cfg.Storage.Enabled && !*once {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	scanCfg := scanner.DefaultConfig()
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.Tickers = universe
	scanCfg.DryRun = *once

	// Interfaz nil tipada: pasar el puntero nil directo haría el check
	// `storage != nil` del scanner inútil.
	var s *scanner.Scanner
	if store != nil {
		s = scanner.New(scanCfg, strat, provider, store, notifier)
	} else {
		s = scanner.New(scanCfg, strat, provider, nil, notifier)
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("edgescan stopped cleanly")
}

// runEdgePipeline ejecuta una pasada del pipeline de filtros legacy.
func runEdgePipeline(ctx context.Context, provider *yahoo.Provider, notifier *notify.Console, tickers []string, filters config.FiltersConfig) {
	metrics, err := provider.FetchMetrics(ctx, tickers)
	if err != nil {
		slog.Error("fetch failed", "err", err)
		os.Exit(1)
	}

	pipeline := edge.New(edge.Config{
		MaxSpreadPct:      filters.MaxSpreadPct,
		MinOpenInterest:   filters.MinOpenInterest,
		MinDailyVolume:    filters.MinDailyVolume,
		MinReturn20DPct:   filters.MinReturn20DPct,
		IVRankMin:         filters.IVRankMin,
		IVRankMax:         filters.IVRankMax,
		MinDaysToEarnings: filters.MinDaysToEarnings,
	}, nil)
	results := pipeline.ScanForEdges(metrics)
	notifier.PrintEdge(results)
}

// splitTickers parsea la lista de tickers del flag, normalizando a mayúsculas.
func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
