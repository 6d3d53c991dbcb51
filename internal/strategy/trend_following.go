package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Umbrales del trend following.
const (
	trendMinReturn20D = 3.0 // % mínimo de movimiento en 20 sesiones

	trendIVRankMin = 15.0 // por debajo, el movimiento puede estar agotado
	trendIVRankMax = 55.0 // por encima, riesgo de IV crush

	trendRSIBullMin = 50.0
	trendRSIBullMax = 75.0 // no sobrecomprado
	trendRSIBearMin = 25.0 // no sobrevendido
	trendRSIBearMax = 50.0

	trendMinDaysToEarnings = 10
)

// TrendFollowing compra debit spreads en la dirección de tendencias fuertes
// confirmadas (precio > MA20 > MA50 con momentum, o el espejo bajista).
type TrendFollowing struct {
	now Clock
}

// NewTrendFollowing crea la estrategia; clock nil usa time.Now.
func NewTrendFollowing(clock Clock) *TrendFollowing {
	return &TrendFollowing{now: clockOrNow(clock)}
}

func (s *TrendFollowing) Info() Info {
	return Info{
		Name:            "Trend Following Debit Spread",
		Description:     "Buy debit spreads in the direction of strong trends",
		EdgeType:        "trend",
		RiskLevel:       "medium",
		ExpectedWinRate: 0.58,
		TypicalHoldDays: 21,
	}
}

// CheckEntry evalúa las puertas en orden: alineación de MAs + momentum + RSI,
// IV rank, earnings, datos de opciones.
func (s *TrendFollowing) CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult {
	var reasons []string

	if m.Price <= 0 || m.MA20 == nil || m.MA50 == nil {
		return domain.Reject(ticker, "", 0, []string{"Missing price data"})
	}
	price, ma20, ma50 := m.Price, *m.MA20, *m.MA50
	return20d := orDefault(m.Return20D, 0)
	rsi := orDefault(m.RSI, 50)

	var direction domain.Direction

	switch {
	case price > ma20 && ma20 > ma50 && return20d >= trendMinReturn20D:
		if trendRSIBullMin <= rsi && rsi <= trendRSIBullMax {
			direction = domain.Bullish
			reasons = append(reasons,
				fmt.Sprintf("Uptrend: $%.2f > MA20 $%.2f > MA50 $%.2f", price, ma20, ma50),
				fmt.Sprintf("Momentum: +%.1f%% in 20 days", return20d),
				fmt.Sprintf("RSI: %.0f (bullish range)", rsi),
			)
		} else {
			reasons = append(reasons, fmt.Sprintf("RSI %.0f outside bullish range (%.0f-%.0f)",
				rsi, trendRSIBullMin, trendRSIBullMax))
		}

	case price < ma20 && ma20 < ma50 && return20d <= -trendMinReturn20D:
		if trendRSIBearMin <= rsi && rsi <= trendRSIBearMax {
			direction = domain.Bearish
			reasons = append(reasons,
				fmt.Sprintf("Downtrend: $%.2f < MA20 $%.2f < MA50 $%.2f", price, ma20, ma50),
				fmt.Sprintf("Momentum: %.1f%% in 20 days", return20d),
				fmt.Sprintf("RSI: %.0f (bearish range)", rsi),
			)
		} else {
			reasons = append(reasons, fmt.Sprintf("RSI %.0f outside bearish range (%.0f-%.0f)",
				rsi, trendRSIBearMin, trendRSIBearMax))
		}

	default:
		reasons = append(reasons,
			fmt.Sprintf("No clear trend: Price $%.2f, MA20 $%.2f, MA50 $%.2f", price, ma20, ma50),
			fmt.Sprintf("20D return: %.1f%% (need ±%.1f%%)", return20d, trendMinReturn20D),
		)
		return domain.Reject(ticker, "", 0, reasons)
	}

	if direction == "" {
		return domain.Reject(ticker, "", 0, reasons)
	}

	// IV rank: blando si se desconoce, rechazo fuera de [15,55].
	if m.IVRank != nil {
		iv := *m.IVRank
		if iv < trendIVRankMin {
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f too low (min %.0f)", iv, trendIVRankMin))
			return domain.Reject(ticker, direction, 30, reasons)
		}
		if iv > trendIVRankMax {
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f too high (max %.0f)", iv, trendIVRankMax))
			return domain.Reject(ticker, direction, 30, reasons)
		}
		reasons = append(reasons, fmt.Sprintf("IV Rank: %.0f (good range)", iv))
	}

	if days, ok := domain.DaysToEarnings(m.EarningsDate, s.now()); ok {
		if days >= 0 && days <= trendMinDaysToEarnings {
			reasons = append(reasons, fmt.Sprintf("Earnings in %d days - SKIP", days))
			return domain.Reject(ticker, direction, 40, reasons)
		}
	}

	if m.Options == nil {
		reasons = append(reasons, "No options data")
		return domain.Reject(ticker, direction, 50, reasons)
	}

	strength := 60.0
	strength += math.Min(math.Abs(return20d)-trendMinReturn20D, 10) * 2
	if m.IVRank != nil && *m.IVRank >= 25 && *m.IVRank <= 45 {
		strength += 10 // rango de IV ideal
	}

	tradeType := domain.TradeCallDebit
	if direction == domain.Bearish {
		tradeType = domain.TradePutDebit
	}

	return domain.StrategyResult{
		Ticker:         ticker,
		Passed:         true,
		Direction:      direction,
		SignalStrength: capStrength(strength),
		Reasons:        reasons,
		TradeType:      tradeType,
	}
}

func (s *TrendFollowing) OptionStructure() OptionStructure {
	return OptionStructure{
		Type:        "debit_spread",
		DTEMin:      30,
		DTEMax:      45,
		LongDelta:   0.40,
		ShortDelta:  0.20,
		MaxDebitPct: 0.35,
	}
}

func (s *TrendFollowing) ExitRules() ExitRules {
	return ExitRules{
		TakeProfitPct: 0.50,
		StopLossPct:   0.50,
		TimeStopDTE:   10,
		Trigger:       "exit on trend break (price crosses MA20)",
	}
}
