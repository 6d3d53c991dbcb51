package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Umbrales del iron condor.
const (
	condorMaxReturn20D = 5.0
	condorMaxReturn5D  = 3.0

	condorRSIMin = 35.0
	condorRSIMax = 65.0

	condorIVRankMin = 25.0 // algo de prima que cobrar
	condorIVRankMax = 55.0 // sin movimiento grande esperado

	condorMaxMASpreadPct = 3.0 // MA20 y MA50 pegadas = sin tendencia

	// Crítico para condors: lejos de earnings, sin tolerancia.
	condorMinDaysToEarnings = 25
)

// IronCondor vende iron condors en valores laterales para cobrar prima por
// ambos lados. Dirección siempre NEUTRAL.
type IronCondor struct {
	now Clock
}

// NewIronCondor crea la estrategia; clock nil usa time.Now.
func NewIronCondor(clock Clock) *IronCondor {
	return &IronCondor{now: clockOrNow(clock)}
}

func (s *IronCondor) Info() Info {
	return Info{
		Name:            "Iron Condor Range",
		Description:     "Sell iron condors on range-bound stocks to collect premium",
		EdgeType:        "volatility",
		RiskLevel:       "medium",
		ExpectedWinRate: 0.72,
		TypicalHoldDays: 21,
	}
}

// CheckEntry evalúa: lateralidad a 20 y 5 días (lo más importante), MAs
// planas, RSI neutro, IV en rango, earnings lejos, datos de opciones.
func (s *IronCondor) CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult {
	var reasons []string

	if m.Price <= 0 || m.MA20 == nil || m.MA50 == nil {
		return domain.Reject(ticker, "", 0, []string{"Missing price data"})
	}
	ma20, ma50 := *m.MA20, *m.MA50
	return5d := orDefault(m.Return5D, 0)
	return20d := orDefault(m.Return20D, 0)
	rsi := orDefault(m.RSI, 50)

	if math.Abs(return20d) > condorMaxReturn20D {
		reasons = append(reasons, fmt.Sprintf("20D return %+.1f%% too large (max ±%.1f%%)", return20d, condorMaxReturn20D))
		return domain.Reject(ticker, "", 0, reasons)
	}
	if math.Abs(return5d) > condorMaxReturn5D {
		reasons = append(reasons, fmt.Sprintf("5D return %+.1f%% too large (max ±%.1f%%)", return5d, condorMaxReturn5D))
		return domain.Reject(ticker, "", 10, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("Range-bound: 5D %+.1f%%, 20D %+.1f%%", return5d, return20d))

	maSpreadPct := math.Abs(ma20-ma50) / ma50 * 100
	if maSpreadPct > condorMaxMASpreadPct {
		reasons = append(reasons, fmt.Sprintf("MAs diverging %.1f%% (trending, not ranging)", maSpreadPct))
		return domain.Reject(ticker, "", 20, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("MAs flat: spread %.1f%%", maSpreadPct))

	if rsi < condorRSIMin || rsi > condorRSIMax {
		reasons = append(reasons, fmt.Sprintf("RSI %.0f outside range (%.0f-%.0f)", rsi, condorRSIMin, condorRSIMax))
		return domain.Reject(ticker, "", 25, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("RSI %.0f (neutral)", rsi))

	if m.IVRank != nil {
		iv := *m.IVRank
		if iv < condorIVRankMin {
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f too low (not enough premium)", iv))
			return domain.Reject(ticker, "", 30, reasons)
		}
		if iv > condorIVRankMax {
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f too high (expecting move)", iv))
			return domain.Reject(ticker, "", 30, reasons)
		}
		reasons = append(reasons, fmt.Sprintf("IV Rank %.0f (good for premium)", iv))
	}

	if days, ok := domain.DaysToEarnings(m.EarningsDate, s.now()); ok {
		if days >= 0 && days < condorMinDaysToEarnings {
			reasons = append(reasons, fmt.Sprintf("Earnings in %d days - NEVER hold IC through earnings", days))
			return domain.Reject(ticker, "", 0, reasons)
		}
		if days >= 0 {
			reasons = append(reasons, fmt.Sprintf("Earnings in %d days (safe)", days))
		}
	}

	if m.Options == nil {
		reasons = append(reasons, "No options data")
		return domain.Reject(ticker, domain.Neutral, 50, reasons)
	}

	strength := 60.0
	if math.Abs(return20d) < 2 {
		strength += 15 // muy lateral
	}
	if rsi >= 40 && rsi <= 60 {
		strength += 10 // RSI perfecto
	}
	if m.IVRank != nil && *m.IVRank >= 35 && *m.IVRank <= 45 {
		strength += 10 // IV ideal
	}

	return domain.StrategyResult{
		Ticker:         ticker,
		Passed:         true,
		Direction:      domain.Neutral,
		SignalStrength: capStrength(strength),
		Reasons:        reasons,
		TradeType:      domain.TradeIronCondor,
	}
}

func (s *IronCondor) OptionStructure() OptionStructure {
	return OptionStructure{
		Type:         "iron_condor",
		DTEMin:       30,
		DTEMax:       45,
		ShortDelta:   0.20, // patas vendidas a 20 delta
		LongDelta:    0.10, // alas compradas a 10 delta
		MinCreditPct: 0.30,
	}
}

func (s *IronCondor) ExitRules() ExitRules {
	return ExitRules{
		TakeProfitPct: 0.50,
		StopLossPct:   1.00,
		TimeStopDTE:   14, // cerrar a 14 DTE para evitar gamma
		Trigger:       "exit if the stock breaks out of its range",
	}
}
