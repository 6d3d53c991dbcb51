package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Umbrales del mean reversion.
const (
	meanRevRSIOversold   = 25.0
	meanRevRSIOverbought = 75.0

	// Movimiento mínimo a 5 días que confirma el extremo. Con RSI más allá
	// de 20/80 se relaja al 75% del umbral base.
	meanRevMinReturn5D = 5.0
	extremeRSIRelax    = 0.75

	meanRevMaxReturn20D = 15.0 // más allá es tendencia real, no reversión
	meanRevIVRankMax    = 50.0 // opciones caras matan el edge

	meanRevMinDaysToEarnings = 7
)

// MeanReversion compra opciones OTM baratas apostando al snap-back tras un
// movimiento extremo confirmado por RSI.
type MeanReversion struct {
	now Clock
}

// NewMeanReversion crea la estrategia; clock nil usa time.Now.
func NewMeanReversion(clock Clock) *MeanReversion {
	return &MeanReversion{now: clockOrNow(clock)}
}

func (s *MeanReversion) Info() Info {
	return Info{
		Name:            "Mean Reversion OTM",
		Description:     "Buy cheap OTM options betting on snap-back from extreme moves",
		EdgeType:        "mean_reversion",
		RiskLevel:       "high",
		ExpectedWinRate: 0.45, // win rate bajo, ganadores grandes
		TypicalHoldDays: 7,
	}
}

// CheckEntry evalúa: extremo de RSI (señal clave), confirmación del retorno a
// 5 días, tendencia de 20 días no desbocada, IV barata, earnings.
// La ausencia de cadena de opciones es blanda: se anota pero no rechaza.
func (s *MeanReversion) CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult {
	var reasons []string

	if m.RSI == nil {
		reasons = append(reasons, "RSI unavailable")
		return domain.Reject(ticker, "", 0, reasons)
	}
	rsi := *m.RSI

	// Umbral relajado cuando el RSI está más allá de 20/80.
	threshold := meanRevMinReturn5D
	if rsi < 20 || rsi > 80 {
		threshold = meanRevMinReturn5D * extremeRSIRelax
	}

	var direction domain.Direction
	switch {
	case rsi < meanRevRSIOversold:
		direction = domain.Bullish
		reasons = append(reasons, fmt.Sprintf("RSI %.0f OVERSOLD (< %.0f) - reversal setup", rsi, meanRevRSIOversold))

		if m.Return5D != nil && *m.Return5D <= -threshold {
			reasons = append(reasons, fmt.Sprintf("5D return: %.1f%% (sharp drop)", *m.Return5D))
		} else {
			msg := "5D return unavailable"
			if m.Return5D != nil {
				msg = fmt.Sprintf("5D return %.1f%% not extreme enough (need <= -%.1f%%)", *m.Return5D, threshold)
			}
			reasons = append(reasons, msg)
			return domain.Reject(ticker, "", 20, reasons)
		}

	case rsi > meanRevRSIOverbought:
		direction = domain.Bearish
		reasons = append(reasons, fmt.Sprintf("RSI %.0f OVERBOUGHT (> %.0f) - reversal setup", rsi, meanRevRSIOverbought))

		if m.Return5D != nil && *m.Return5D >= threshold {
			reasons = append(reasons, fmt.Sprintf("5D return: +%.1f%% (sharp rally)", *m.Return5D))
		} else {
			msg := "5D return unavailable"
			if m.Return5D != nil {
				msg = fmt.Sprintf("5D return %.1f%% not extreme enough (need >= %.1f%%)", *m.Return5D, threshold)
			}
			reasons = append(reasons, msg)
			return domain.Reject(ticker, "", 20, reasons)
		}

	default:
		reasons = append(reasons, fmt.Sprintf("RSI %.0f not extreme (need <%.0f or >%.0f)",
			rsi, meanRevRSIOversold, meanRevRSIOverbought))
		return domain.Reject(ticker, "", 0, reasons)
	}

	if m.Return20D != nil && math.Abs(*m.Return20D) > meanRevMaxReturn20D {
		reasons = append(reasons, fmt.Sprintf("20D return %.1f%% too extreme - may be trend, not reversal", *m.Return20D))
		return domain.Reject(ticker, direction, 30, reasons)
	}

	if m.IVRank != nil {
		if *m.IVRank > meanRevIVRankMax {
			reasons = append(reasons, fmt.Sprintf("IV Rank %.0f > %.0f (options expensive)", *m.IVRank, meanRevIVRankMax))
			return domain.Reject(ticker, direction, 40, reasons)
		}
		reasons = append(reasons, fmt.Sprintf("IV Rank: %.0f (options reasonably priced)", *m.IVRank))
	}

	if days, ok := domain.DaysToEarnings(m.EarningsDate, s.now()); ok {
		if days >= 0 && days < meanRevMinDaysToEarnings {
			reasons = append(reasons, fmt.Sprintf("Earnings in %d days - reversal may not happen", days))
			return domain.Reject(ticker, direction, 35, reasons)
		}
	}

	// Sin cadena de opciones solo anotamos: la señal es válida igualmente.
	if m.Options == nil {
		reasons = append(reasons, "No options data (will need to fetch before trading)")
	}

	strength := 50.0
	if rsi < 20 || rsi > 80 {
		strength += 20 // RSI muy extremo
	}
	if m.Return5D != nil && math.Abs(*m.Return5D) > 8 {
		strength += 15 // movimiento corto grande
	}
	if m.IVRank != nil && *m.IVRank < 30 {
		strength += 10 // opciones baratas
	}

	tradeType := domain.TradeCallLong
	if direction == domain.Bearish {
		tradeType = domain.TradePutLong
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

func (s *MeanReversion) OptionStructure() OptionStructure {
	return OptionStructure{
		Type:        "long_otm",
		DTEMin:      14,
		DTEMax:      30, // DTE corto: theta rápida, pero la reversión también
		TargetDelta: 0.25,
		MaxCostPct:  0.02,
	}
}

func (s *MeanReversion) ExitRules() ExitRules {
	return ExitRules{
		TakeProfitPct: 1.00,
		StopLossPct:   0.50,
		TimeStopDTE:   5,
		Trigger:       "exit when RSI normalizes to 40-60",
	}
}
