package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Umbrales del breakout momentum.
const (
	breakoutMinReturn5D  = 3.0
	breakoutMinReturn20D = 5.0 // proxy de breakout: no hay dato de máximo 52 semanas

	breakoutMaxAboveMA20Pct = 10.0 // extensión máxima sobre la MA20
	breakoutRSIMax          = 80.0

	breakoutIVRankMin = 20.0
	breakoutIVRankMax = 60.0

	breakoutMinDaysToEarnings = 7
)

// Breakout compra call debit spreads en rupturas alcistas confirmadas.
// Solo variante alcista: no hay breakout bajista en esta estrategia.
type Breakout struct {
	now Clock
}

// NewBreakout crea la estrategia; clock nil usa time.Now.
func NewBreakout(clock Clock) *Breakout {
	return &Breakout{now: clockOrNow(clock)}
}

func (s *Breakout) Info() Info {
	return Info{
		Name:            "Breakout Momentum",
		Description:     "Buy calls on stocks breaking to new highs with volume",
		EdgeType:        "trend",
		RiskLevel:       "medium-high",
		ExpectedWinRate: 0.55,
		TypicalHoldDays: 14,
	}
}

// CheckEntry evalúa: tendencia alcista estricta, momentum a 5 y 20 días,
// extensión sobre MA20, RSI, IV rank, earnings, datos de opciones.
func (s *Breakout) CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult {
	var reasons []string

	if m.Price <= 0 || m.MA20 == nil || m.MA50 == nil {
		return domain.Reject(ticker, "", 0, []string{"Missing price data"})
	}
	price, ma20, ma50 := m.Price, *m.MA20, *m.MA50
	return5d := orDefault(m.Return5D, 0)
	return20d := orDefault(m.Return20D, 0)
	rsi := orDefault(m.RSI, 50)

	if !(price > ma20 && ma20 > ma50) {
		reasons = append(reasons, fmt.Sprintf("Not in uptrend: $%.2f, MA20 $%.2f, MA50 $%.2f", price, ma20, ma50))
		return domain.Reject(ticker, "", 0, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("Uptrend confirmed: $%.2f > MA20 > MA50", price))

	if return5d < breakoutMinReturn5D {
		reasons = append(reasons, fmt.Sprintf("5D return +%.1f%% < %.0f%% (weak momentum)", return5d, breakoutMinReturn5D))
		return domain.Reject(ticker, "", 20, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("Strong 5D momentum: +%.1f%%", return5d))

	// Sin dato de máximo 52 semanas, el retorno a 20 días hace de proxy.
	if return20d < breakoutMinReturn20D {
		reasons = append(reasons, fmt.Sprintf("20D return +%.1f%% - not a strong breakout", return20d))
		return domain.Reject(ticker, "", 30, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("20D momentum: +%.1f%% (breakout territory)", return20d))

	pctAboveMA20 := (price - ma20) / ma20 * 100
	if pctAboveMA20 > breakoutMaxAboveMA20Pct {
		reasons = append(reasons, fmt.Sprintf("Extended %.1f%% above MA20 (> %.0f%%)", pctAboveMA20, breakoutMaxAboveMA20Pct))
		return domain.Reject(ticker, domain.Bullish, 35, reasons)
	}

	if rsi > breakoutRSIMax {
		reasons = append(reasons, fmt.Sprintf("RSI %.0f > %.0f (overbought)", rsi, breakoutRSIMax))
		return domain.Reject(ticker, domain.Bullish, 40, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("RSI %.0f (not overbought)", rsi))

	if m.IVRank != nil {
		iv := *m.IVRank
		switch {
		case iv < breakoutIVRankMin:
			// Blando: opciones baratas pero el movimiento puede estar hecho.
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f low - options cheap but move may be done", iv))
		case iv > breakoutIVRankMax:
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f high - IV crush risk", iv))
			return domain.Reject(ticker, domain.Bullish, 45, reasons)
		default:
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f (acceptable)", iv))
		}
	}

	if days, ok := domain.DaysToEarnings(m.EarningsDate, s.now()); ok {
		if days >= 0 && days < breakoutMinDaysToEarnings {
			reasons = append(reasons, fmt.Sprintf("Earnings in %d days - breakout may be earnings anticipation", days))
			return domain.Reject(ticker, domain.Bullish, 40, reasons)
		}
	}

	if m.Options == nil {
		reasons = append(reasons, "No options data")
		return domain.Reject(ticker, domain.Bullish, 50, reasons)
	}

	strength := 55.0
	strength += math.Min(return5d-breakoutMinReturn5D, 10) * 2
	strength += math.Min(return20d-breakoutMinReturn20D, 15)
	if m.IVRank != nil && *m.IVRank >= 30 && *m.IVRank <= 50 {
		strength += 10
	}

	return domain.StrategyResult{
		Ticker:         ticker,
		Passed:         true,
		Direction:      domain.Bullish,
		SignalStrength: capStrength(strength),
		Reasons:        reasons,
		TradeType:      domain.TradeCallDebit,
	}
}

func (s *Breakout) OptionStructure() OptionStructure {
	return OptionStructure{
		Type:        "debit_spread",
		DTEMin:      21,
		DTEMax:      45,
		LongDelta:   0.50, // ATM o ligeramente ITM
		ShortDelta:  0.25,
		MaxDebitPct: 0.40,
	}
}

func (s *Breakout) ExitRules() ExitRules {
	return ExitRules{
		TakeProfitPct: 0.75,
		StopLossPct:   0.40, // stop más ajustado: los breakouts deben funcionar rápido
		TimeStopDTE:   10,
		Trigger:       "exit if price falls back below breakout level",
	}
}
