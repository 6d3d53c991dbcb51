// Package candidates convierte un ticker que pasó una estrategia direccional
// en un debit spread concreto: strikes, precios de entrada y números de riesgo
// buscados sobre la cadena de opciones.
package candidates

import (
	"math"
	"sort"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Parámetros objetivo de la búsqueda de spreads.
const (
	defaultLongDeltaTarget  = 0.35
	defaultShortDeltaTarget = 0.175
	defaultDeltaTolerance   = 0.10
	defaultMaxDebitPct      = 0.30

	// La pata corta admite una tolerancia de delta más ancha que la larga.
	shortToleranceFactor = 1.5

	// Penalización del spread bid-ask en el score de un par.
	spreadPenalty = 5.0

	// Margen para que el límite de débito sea inclusivo con floats.
	debitEps = 1e-9
)

// Generator busca el mejor par (larga, corta) de una cadena de opciones.
// Sin estado mutable: cada llamada trabaja sobre copias locales de las filas
// y nunca modifica la cadena del caller.
type Generator struct {
	LongDeltaTarget  float64
	ShortDeltaTarget float64
	DeltaTolerance   float64
	MaxDebitPct      float64
}

// NewGenerator crea un Generator con los parámetros por defecto
// (larga ~0.35 delta, corta ~0.175, débito máx 30% del ancho).
func NewGenerator() *Generator {
	return &Generator{
		LongDeltaTarget:  defaultLongDeltaTarget,
		ShortDeltaTarget: defaultShortDeltaTarget,
		DeltaTolerance:   defaultDeltaTolerance,
		MaxDebitPct:      defaultMaxDebitPct,
	}
}

// estimateDelta aproxima la delta desde la moneyness (strike/precio) y un
// factor temporal min(dte/45, 1). Es una aproximación explícita por tramos,
// NO deriva de la IV real de la cadena; si hubiera IV disponible podría
// sustituirse por una delta Black-Scholes siempre que se preserve la relación
// monótona moneyness→delta y la selección por delta objetivo.
func estimateDelta(strike, currentPrice float64, put bool, dte int) float64 {
	moneyness := strike / currentPrice
	timeFactor := math.Min(float64(dte)/45, 1.0)

	if !put {
		switch {
		case moneyness <= 0.95: // deep ITM
			return 0.85 + 0.15*timeFactor
		case moneyness <= 1.0: // ligeramente ITM
			return 0.55 + 0.15*(1-moneyness)/0.05
		case moneyness <= 1.05: // ATM a ligeramente OTM
			return 0.50 - 0.20*(moneyness-1)/0.05
		case moneyness <= 1.10: // OTM
			return 0.30 - 0.15*(moneyness-1.05)/0.05
		default: // deep OTM, suelo en 0.05
			return math.Max(0.05, 0.15-0.10*(moneyness-1.10)/0.10)
		}
	}

	// Puts: espejo con signo negativo y moneyness invertida.
	switch {
	case moneyness >= 1.05: // deep ITM
		return -0.85 - 0.15*timeFactor
	case moneyness >= 1.0: // ligeramente ITM
		return -0.55 - 0.15*(moneyness-1)/0.05
	case moneyness >= 0.95: // ATM a ligeramente OTM
		return -0.50 + 0.20*(1-moneyness)/0.05
	case moneyness >= 0.90: // OTM
		return -0.30 + 0.15*(0.95-moneyness)/0.05
	default: // deep OTM
		return math.Max(-0.15, -0.15+0.10*(0.90-moneyness)/0.10)
	}
}

// leg es la copia de trabajo de una fila con su delta estimada y las
// distancias a los deltas objetivo. La cadena del caller no se toca.
type leg struct {
	row       domain.OptionRow
	estDelta  float64
	longDist  float64
	shortDist float64
}

// buildLegs filtra filas con bid y ask positivos y precalcula deltas.
// La distancia se mide sobre |delta| para que funcione igual con puts.
func (g *Generator) buildLegs(rows []domain.OptionRow, currentPrice float64, put bool, dte int) []leg {
	legs := make([]leg, 0, len(rows))
	for _, r := range rows {
		if r.Bid <= 0 || r.Ask <= 0 {
			continue
		}
		d := estimateDelta(r.Strike, currentPrice, put, dte)
		legs = append(legs, leg{
			row:       r,
			estDelta:  d,
			longDist:  math.Abs(math.Abs(d) - g.LongDeltaTarget),
			shortDist: math.Abs(math.Abs(d) - g.ShortDeltaTarget),
		})
	}
	return legs
}

// longCandidates devuelve las patas largas dentro de tolerancia, o las 3 más
// cercanas por distancia absoluta si ninguna entra en la banda.
func (g *Generator) longCandidates(legs []leg) []leg {
	var within []leg
	for _, l := range legs {
		if l.longDist <= g.DeltaTolerance {
			within = append(within, l)
		}
	}
	if len(within) > 0 {
		return within
	}

	closest := make([]leg, len(legs))
	copy(closest, legs)
	sort.SliceStable(closest, func(i, j int) bool { return closest[i].longDist < closest[j].longDist })
	if len(closest) > 3 {
		closest = closest[:3]
	}
	return closest
}

// GenerateCallSpread busca el mejor call debit spread alcista: compra el
// strike bajo, vende el estrictamente más alto. Devuelve nil si no hay par
// que cumpla las restricciones — la ausencia de trade es un resultado válido.
func (g *Generator) GenerateCallSpread(ticker string, chain *domain.OptionsChain) *domain.SpreadCandidate {
	if chain == nil {
		return nil
	}
	legs := g.buildLegs(chain.Calls, chain.CurrentPrice, false, chain.DTE)
	if len(legs) < 2 {
		return nil
	}

	return g.bestPair(ticker, chain, legs, domain.Bullish)
}

// GeneratePutSpread es el espejo bajista: compra el strike alto, vende el
// estrictamente más bajo.
func (g *Generator) GeneratePutSpread(ticker string, chain *domain.OptionsChain) *domain.SpreadCandidate {
	if chain == nil {
		return nil
	}
	legs := g.buildLegs(chain.Puts, chain.CurrentPrice, true, chain.DTE)
	if len(legs) < 2 {
		return nil
	}

	return g.bestPair(ticker, chain, legs, domain.Bearish)
}

// bestPair recorre todos los pares (larga, corta) válidos y se queda con el
// de mayor score = risk_reward − 5·avg_spread_pct.
func (g *Generator) bestPair(ticker string, chain *domain.OptionsChain, legs []leg, direction domain.Direction) *domain.SpreadCandidate {
	shortTol := g.DeltaTolerance * shortToleranceFactor

	var best *domain.SpreadCandidate
	bestScore := math.Inf(-1)

	for _, long := range g.longCandidates(legs) {
		for _, short := range legs {
			if direction == domain.Bullish {
				if short.row.Strike <= long.row.Strike {
					continue
				}
			} else {
				if short.row.Strike >= long.row.Strike {
					continue
				}
			}
			if short.shortDist > shortTol {
				continue
			}

			width := math.Abs(short.row.Strike - long.row.Strike)
			maxDebit := long.row.Ask - short.row.Bid
			midDebit := long.row.Mid() - short.row.Mid()

			if width <= 0 || maxDebit <= 0 {
				continue
			}
			// Límite inclusivo: 0.30 exacto pasa, 0.31 no.
			if maxDebit/width > g.MaxDebitPct+debitEps {
				continue
			}

			maxProfit := width - midDebit
			riskReward := 0.0
			if midDebit > 0 {
				riskReward = maxProfit / midDebit
			}

			avgSpreadPct := ((long.row.Ask-long.row.Bid)/long.row.Ask +
				(short.row.Ask-short.row.Bid)/short.row.Ask) / 2

			score := riskReward - avgSpreadPct*spreadPenalty
			if score <= bestScore {
				continue
			}
			bestScore = score

			breakeven := long.row.Strike + midDebit
			spreadType := domain.TradeCallDebit
			if direction == domain.Bearish {
				breakeven = long.row.Strike - midDebit
				spreadType = domain.TradePutDebit
			}

			best = &domain.SpreadCandidate{
				Ticker:       ticker,
				Direction:    direction,
				SpreadType:   spreadType,
				Long:         domain.SpreadLeg{Strike: long.row.Strike, Bid: long.row.Bid, Ask: long.row.Ask, Delta: long.estDelta},
				Short:        domain.SpreadLeg{Strike: short.row.Strike, Bid: short.row.Bid, Ask: short.row.Ask, Delta: short.estDelta},
				Expiration:   chain.Expiration,
				DTE:          chain.DTE,
				CurrentPrice: chain.CurrentPrice,
				SpreadWidth:  width,
				MaxDebit:     maxDebit,
				MidDebit:     midDebit,
				MaxProfit:    maxProfit,
				MaxLoss:      midDebit,
				Breakeven:    breakeven,
				RiskReward:   riskReward,
				SpreadPct:    avgSpreadPct,
				OpenInterest: long.row.OI() + short.row.OI(),
			}
		}
	}

	return best
}

// Generate despacha por dirección y devuelve 0 o 1 candidatos en slice, para
// mantener un contrato uniforme de colección. NEUTRAL no genera candidatos.
func (g *Generator) Generate(ticker string, direction domain.Direction, chain *domain.OptionsChain) []domain.SpreadCandidate {
	if chain == nil || chain.CurrentPrice <= 0 {
		return nil
	}

	var spread *domain.SpreadCandidate
	switch direction {
	case domain.Bullish:
		spread = g.GenerateCallSpread(ticker, chain)
	case domain.Bearish:
		spread = g.GeneratePutSpread(ticker, chain)
	default:
		return nil
	}

	if spread == nil {
		return nil
	}
	return []domain.SpreadCandidate{*spread}
}

// GenerateAll genera candidatos para todos los resultados que pasaron con
// dirección, y los devuelve ordenados por risk/reward descendente.
func GenerateAll(results []domain.StrategyResult, data map[string]domain.TickerMetrics) []domain.SpreadCandidate {
	g := NewGenerator()
	var all []domain.SpreadCandidate

	for _, r := range results {
		if !r.Passed {
			continue
		}
		m, ok := data[r.Ticker]
		if !ok || m.Options == nil {
			continue
		}
		all = append(all, g.Generate(r.Ticker, r.Direction, m.Options)...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].RiskReward > all[j].RiskReward })
	return all
}
