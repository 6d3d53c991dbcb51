package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/edgescan/internal/candidates"
	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Tickers      []string
	DryRun       bool
}

// DefaultConfig devuelve una configuración sensata.
func DefaultConfig() Config {
	return Config{
		ScanInterval: 15 * time.Minute,
	}
}

// Scanner es el orquestador del loop de escaneo: fetch → evaluar cada ticker
// con la estrategia seleccionada → rankear → generar spread candidates →
// notificar/persistir.
type Scanner struct {
	cfg      Config
	strat    strategy.Strategy
	provider ports.MarketDataProvider
	storage  ports.ScanStorage
	notifier ports.Notifier
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage puede ser nil (no se persiste nada).
func New(cfg Config, strat strategy.Strategy, provider ports.MarketDataProvider, storage ports.ScanStorage, notifier ports.Notifier) *Scanner {
	return &Scanner{
		cfg:      cfg,
		strat:    strat,
		provider: provider,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"strategy", s.strat.Info().Name,
		"interval", s.cfg.ScanInterval,
		"tickers", len(s.cfg.Tickers),
		"dry_run", s.cfg.DryRun,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.DryRun {
			return err
		}
	}

	if s.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve el scan.
func (s *Scanner) RunOnce(ctx context.Context) (domain.Scan, error) {
	return s.cycle(ctx)
}

// runCycle ejecuta un ciclo completo y notifica/persiste el resultado.
func (s *Scanner) runCycle(ctx context.Context) error {
	scan, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, scan); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, scan); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"scan_id", scan.ID,
		"evaluated", len(scan.Results),
		"passed", scan.PassedCount(),
		"candidates", len(scan.Candidates),
		"duration", scan.Duration.Round(time.Millisecond),
	)
	return nil
}

// cycle hace fetch → evaluate → rank → candidates.
func (s *Scanner) cycle(ctx context.Context) (domain.Scan, error) {
	start := time.Now()

	metrics, err := s.provider.FetchMetrics(ctx, s.cfg.Tickers)
	if err != nil {
		return domain.Scan{}, fmt.Errorf("scanner.cycle: fetch metrics: %w", err)
	}

	results := Evaluate(s.strat, metrics)
	cands := candidates.GenerateAll(results, metrics)

	info := s.strat.Info()
	return domain.Scan{
		ID:           uuid.New().String(),
		StrategyKey:  info.Key,
		StrategyName: info.Name,
		StartedAt:    start,
		Duration:     time.Since(start),
		Results:      results,
		Candidates:   cands,
	}, nil
}

// Evaluate pasa cada ticker por la estrategia y devuelve los resultados
// ordenados por (passed, signal strength) descendente.
//
// Cada ticker se evalúa aislado: un panic por datos malformados excluye solo
// ese ticker del resultado, nunca aborta el batch.
func Evaluate(strat strategy.Strategy, metrics map[string]domain.TickerMetrics) []domain.StrategyResult {
	tickers := make([]string, 0, len(metrics))
	for t := range metrics {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	results := make([]domain.StrategyResult, 0, len(tickers))
	for _, t := range tickers {
		res, ok := evaluateOne(strat, t, metrics[t])
		if !ok {
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Passed != results[j].Passed {
			return results[i].Passed
		}
		return results[i].SignalStrength > results[j].SignalStrength
	})
	return results
}

// evaluateOne aísla la evaluación de un ticker frente a panics.
func evaluateOne(strat strategy.Strategy, ticker string, m domain.TickerMetrics) (res domain.StrategyResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("ticker evaluation panicked, excluding from results", "ticker", ticker, "panic", r)
			ok = false
		}
	}()
	return strat.CheckEntry(ticker, m), true
}
