// Package edge implementa el pipeline de filtros original del edge
// "trend-following debit spread": tendencia → volatilidad → eventos →
// liquidez, en orden estricto con early-exit. Convive con las estrategias de
// internal/strategy como punto de entrada alternativo/legacy — los umbrales
// se solapan pero no coinciden, y a propósito no se han fusionado.
package edge

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Config contiene los umbrales del pipeline.
type Config struct {
	// Liquidez (no negociable).
	MaxSpreadPct    float64 // spread bid-ask <= fracción del mid
	MinOpenInterest float64
	MinDailyVolume  float64 // blando: avisa pero no rechaza

	// Tendencia.
	MinReturn20DPct float64 // % que confirma tendencia

	// Volatilidad.
	IVRankMin float64
	IVRankMax float64

	// Eventos.
	MinDaysToEarnings int
}

// DefaultConfig devuelve los umbrales del edge original.
func DefaultConfig() Config {
	return Config{
		MaxSpreadPct:      0.08,
		MinOpenInterest:   500,
		MinDailyVolume:    200,
		MinReturn20DPct:   3.0,
		IVRankMin:         20,
		IVRankMax:         60,
		MinDaysToEarnings: 10,
	}
}

// Scores es el tally por etapa (1 = pasó, 0 = falló o no se evaluó).
type Scores struct {
	Trend      int
	Volatility int
	Events     int
	Liquidity  int
	Total      int
}

// FilterResult es el veredicto del pipeline sobre un ticker.
type FilterResult struct {
	Ticker    string
	Passed    bool
	Direction domain.Direction
	Reasons   []string
	Scores    Scores
}

// Pipeline aplica los filtros en orden fijo.
type Pipeline struct {
	cfg Config
	now func() time.Time
}

// New crea un Pipeline; clock nil usa time.Now.
func New(cfg Config, clock func() time.Time) *Pipeline {
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{cfg: cfg, now: clock}
}

// CheckTrend valida la tendencia: precio vs MA20 vs MA50 y retorno a 20 días
// de al menos ±MinReturn20DPct. Devuelve (passed, direction, reasons).
func (p *Pipeline) CheckTrend(m domain.TickerMetrics) (bool, domain.Direction, []string) {
	if m.Price <= 0 || m.MA20 == nil || m.MA50 == nil || m.Return20D == nil {
		return false, "", []string{"Missing price/MA data"}
	}
	price, ma20, ma50, r20 := m.Price, *m.MA20, *m.MA50, *m.Return20D

	if price > ma20 && ma20 > ma50 && r20 >= p.cfg.MinReturn20DPct {
		return true, domain.Bullish, []string{
			fmt.Sprintf("BULLISH: Price $%.2f > MA20 $%.2f > MA50 $%.2f", price, ma20, ma50),
			fmt.Sprintf("20D return: +%.1f%%", r20),
		}
	}

	if price < ma20 && ma20 < ma50 && r20 <= -p.cfg.MinReturn20DPct {
		return true, domain.Bearish, []string{
			fmt.Sprintf("BEARISH: Price $%.2f < MA20 $%.2f < MA50 $%.2f", price, ma20, ma50),
			fmt.Sprintf("20D return: %.1f%%", r20),
		}
	}

	return false, "", []string{
		fmt.Sprintf("No clear trend: Price $%.2f, MA20 $%.2f, MA50 $%.2f", price, ma20, ma50),
		fmt.Sprintf("20D return: %.1f%% (need ±%.1f%%)", r20, p.cfg.MinReturn20DPct),
	}
}

// CheckVolatility valida que el IV rank esté en [IVRankMin, IVRankMax].
// IV rank desconocido pasa en blando con nota.
func (p *Pipeline) CheckVolatility(m domain.TickerMetrics) (bool, []string) {
	if m.IVRank == nil {
		return true, []string{"IV Rank: Unknown (using realized vol proxy)"}
	}
	iv := *m.IVRank

	if iv < p.cfg.IVRankMin {
		return false, []string{fmt.Sprintf("IV Rank %.0f < %.0f (too low)", iv, p.cfg.IVRankMin)}
	}
	if iv > p.cfg.IVRankMax {
		return false, []string{fmt.Sprintf("IV Rank %.0f > %.0f (IV crush risk)", iv, p.cfg.IVRankMax)}
	}
	return true, []string{fmt.Sprintf("IV Rank: %.0f (acceptable range)", iv)}
}

// CheckEvents rechaza solo si hay earnings dentro de [0, MinDaysToEarnings]
// días; fecha ausente o no parseable pasa.
func (p *Pipeline) CheckEvents(m domain.TickerMetrics) (bool, []string) {
	if m.EarningsDate == "" {
		return true, []string{"Earnings: Unknown date"}
	}

	days, ok := domain.DaysToEarnings(m.EarningsDate, p.now())
	if !ok {
		return true, []string{"Earnings: Could not parse date"}
	}

	if days >= 0 && days <= p.cfg.MinDaysToEarnings {
		return false, []string{fmt.Sprintf("Earnings in %d days - SKIP", days)}
	}
	if days > 0 {
		return true, []string{fmt.Sprintf("Earnings in %d days (OK)", days)}
	}
	return true, []string{fmt.Sprintf("Earnings passed %d days ago", -days)}
}

// CheckLiquidity valida la liquidez de la cadena sobre las patas ATM: spread
// medio <= MaxSpreadPct y open interest medio >= MinOpenInterest. El volumen
// bajo solo añade un aviso.
func (p *Pipeline) CheckLiquidity(m domain.TickerMetrics) (bool, []string) {
	chain := m.Options
	if chain == nil {
		return false, []string{"No options data available"}
	}
	if len(chain.Calls) == 0 || len(chain.Puts) == 0 {
		return false, []string{"Empty options chain"}
	}

	atmCall := atmRow(chain.Calls, chain.CurrentPrice)
	atmPut := atmRow(chain.Puts, chain.CurrentPrice)

	var reasons []string

	avgSpreadPct := (atmCall.SpreadPct() + atmPut.SpreadPct()) / 2
	if avgSpreadPct > p.cfg.MaxSpreadPct {
		reasons = append(reasons, fmt.Sprintf("Spread %.1f%% > %.1f%% (too wide)",
			avgSpreadPct*100, p.cfg.MaxSpreadPct*100))
		return false, reasons
	}

	avgOI := float64(atmCall.OI()+atmPut.OI()) / 2
	if avgOI < p.cfg.MinOpenInterest {
		reasons = append(reasons, fmt.Sprintf("Open Interest %.0f < %.0f", avgOI, p.cfg.MinOpenInterest))
		return false, reasons
	}

	avgVol := float64(atmCall.Vol()+atmPut.Vol()) / 2
	if avgVol < p.cfg.MinDailyVolume {
		reasons = append(reasons,
			fmt.Sprintf("Volume %.0f < %.0f (low liquidity)", avgVol, p.cfg.MinDailyVolume),
			"WARNING: Low volume, may have fill issues")
	}

	reasons = append(reasons, fmt.Sprintf("Liquidity OK: Spread %.1f%%, OI %.0f", avgSpreadPct*100, avgOI))
	return true, reasons
}

// atmRow devuelve la fila con strike más cercano al precio actual.
func atmRow(rows []domain.OptionRow, currentPrice float64) domain.OptionRow {
	best := rows[0]
	bestDist := math.Abs(best.Strike - currentPrice)
	for _, r := range rows[1:] {
		if d := math.Abs(r.Strike - currentPrice); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// ApplyAllFilters ejecuta las cuatro etapas en orden estricto con early
// return en los rechazos duros.
func (p *Pipeline) ApplyAllFilters(ticker string, m domain.TickerMetrics) FilterResult {
	var reasons []string
	var scores Scores

	trendOK, direction, trendReasons := p.CheckTrend(m)
	reasons = append(reasons, trendReasons...)
	if trendOK {
		scores.Trend = 1
	}
	if !trendOK {
		scores.Total = tally(scores)
		return FilterResult{Ticker: ticker, Passed: false, Reasons: reasons, Scores: scores}
	}

	volOK, volReasons := p.CheckVolatility(m)
	reasons = append(reasons, volReasons...)
	if volOK {
		scores.Volatility = 1
	}
	if !volOK {
		scores.Total = tally(scores)
		return FilterResult{Ticker: ticker, Passed: false, Direction: direction, Reasons: reasons, Scores: scores}
	}

	eventsOK, eventReasons := p.CheckEvents(m)
	reasons = append(reasons, eventReasons...)
	if eventsOK {
		scores.Events = 1
	}
	if !eventsOK {
		scores.Total = tally(scores)
		return FilterResult{Ticker: ticker, Passed: false, Direction: direction, Reasons: reasons, Scores: scores}
	}

	liqOK, liqReasons := p.CheckLiquidity(m)
	reasons = append(reasons, liqReasons...)
	if liqOK {
		scores.Liquidity = 1
	}
	scores.Total = tally(scores)

	return FilterResult{Ticker: ticker, Passed: liqOK, Direction: direction, Reasons: reasons, Scores: scores}
}

func tally(s Scores) int {
	return s.Trend + s.Volatility + s.Events + s.Liquidity
}

// ScanForEdges aplica el pipeline a todo el universo y ordena por
// (passed, total score) descendente. El recorrido es por ticker ordenado para
// que el resultado sea determinista.
func (p *Pipeline) ScanForEdges(data map[string]domain.TickerMetrics) []FilterResult {
	tickers := make([]string, 0, len(data))
	for t := range data {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	results := make([]FilterResult, 0, len(tickers))
	for _, t := range tickers {
		results = append(results, p.ApplyAllFilters(t, data[t]))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Passed != results[j].Passed {
			return results[i].Passed
		}
		return results[i].Scores.Total > results[j].Scores.Total
	})
	return results
}
