package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Umbrales del IV crush credit.
const (
	ivCrushRankMin = 55.0 // la puerta más restrictiva va primero

	ivCrushMaxReturn20D = 8.0 // demasiado trendy = no vender crédito

	// Post-earnings: IV crush inminente si los earnings fueron hace 1-5 días.
	ivCrushPostEarningsMin = 1
	ivCrushPostEarningsMax = 5

	// Earnings próximos dentro de 20 días = riesgo de evento, rechazo duro.
	ivCrushMinDaysToNextEarnings = 20
)

// IVCrush vende credit spreads cuando la IV está elevada para capturar el
// decay de la prima. La dirección es una apuesta de reversión a la media
// contra el movimiento reciente.
type IVCrush struct {
	now Clock
}

// NewIVCrush crea la estrategia; clock nil usa time.Now.
func NewIVCrush(clock Clock) *IVCrush {
	return &IVCrush{now: clockOrNow(clock)}
}

func (s *IVCrush) Info() Info {
	return Info{
		Name:            "IV Crush Credit Spread",
		Description:     "Sell credit spreads when IV is elevated to capture premium decay",
		EdgeType:        "volatility",
		RiskLevel:       "medium",
		ExpectedWinRate: 0.68,
		TypicalHoldDays: 14,
	}
}

// CheckEntry evalúa: IV rank elevado (puerta clave), earnings (bonus si
// post-earnings, rechazo si próximos), movimiento no extremo, dirección por
// reversión a la media, datos de opciones.
//
// El límite iv_rank >= 55 es inclusivo: 54.9 rechaza, 55.0 sigue.
func (s *IVCrush) CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult {
	var reasons []string

	return20d := orDefault(m.Return20D, 0)
	rsi := orDefault(m.RSI, 50)

	// IV rank es EL filtro de esta estrategia: sin él no hay evaluación.
	if m.IVRank == nil {
		reasons = append(reasons, "IV Rank unknown - cannot evaluate")
		return domain.Reject(ticker, "", 0, reasons)
	}
	ivRank := *m.IVRank

	if ivRank < ivCrushRankMin {
		reasons = append(reasons, fmt.Sprintf("IV Rank %.0f < %.0f (need elevated IV)", ivRank, ivCrushRankMin))
		return domain.Reject(ticker, "", 0, reasons)
	}
	reasons = append(reasons, fmt.Sprintf("IV Rank: %.0f (elevated - good for premium selling)", ivRank))

	// Ambas comprobaciones usan la misma fecha: días transcurridos para el
	// bonus post-earnings y días restantes para el riesgo de evento.
	postEarnings := false
	now := s.now()
	if since, ok := domain.DaysSinceEarnings(m.EarningsDate, now); ok {
		if since >= ivCrushPostEarningsMin && since <= ivCrushPostEarningsMax {
			postEarnings = true
			reasons = append(reasons, fmt.Sprintf("Post-earnings (%d days ago) - IV crush opportunity", since))
		}
		if to, ok := domain.DaysToEarnings(m.EarningsDate, now); ok {
			if to > 0 && to < ivCrushMinDaysToNextEarnings {
				reasons = append(reasons, fmt.Sprintf("Earnings in %d days - SKIP (event risk)", to))
				return domain.Reject(ticker, "", 30, reasons)
			}
		}
	}

	if math.Abs(return20d) > ivCrushMaxReturn20D {
		reasons = append(reasons, fmt.Sprintf("20D return %.1f%% too extreme (prefer range-bound)", return20d))
		return domain.Reject(ticker, "", 20, reasons)
	}

	// Dirección: vender contra el movimiento reciente (reversión a la media).
	var direction domain.Direction
	var tradeType string
	switch {
	case return20d > 2:
		direction, tradeType = domain.Bearish, domain.TradeCallCredit
		reasons = append(reasons, fmt.Sprintf("Stock up %.1f%% - sell call spread (mean reversion)", return20d))
	case return20d < -2:
		direction, tradeType = domain.Bullish, domain.TradePutCredit
		reasons = append(reasons, fmt.Sprintf("Stock down %.1f%% - sell put spread (mean reversion)", return20d))
	case rsi > 55:
		direction, tradeType = domain.Bearish, domain.TradeCallCredit
		reasons = append(reasons, fmt.Sprintf("RSI %.0f slightly elevated - sell call spread", rsi))
	default:
		direction, tradeType = domain.Bullish, domain.TradePutCredit
		reasons = append(reasons, fmt.Sprintf("RSI %.0f neutral/low - sell put spread", rsi))
	}

	if m.Options == nil {
		reasons = append(reasons, "No options data")
		return domain.Reject(ticker, direction, 40, reasons)
	}

	strength := 50.0
	strength += (ivRank - ivCrushRankMin) * 0.5
	if postEarnings {
		strength += 15
	}
	if rsi >= 30 && rsi <= 70 {
		strength += 10 // RSI no extremo
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

func (s *IVCrush) OptionStructure() OptionStructure {
	return OptionStructure{
		Type:         "credit_spread",
		DTEMin:       20,
		DTEMax:       35,
		ShortDelta:   0.25,
		LongDelta:    0.10,
		MinCreditPct: 0.25,
	}
}

func (s *IVCrush) ExitRules() ExitRules {
	return ExitRules{
		TakeProfitPct: 0.50,
		StopLossPct:   1.50,
		TimeStopDTE:   7,
		Trigger:       "exit when IV normalizes",
	}
}
