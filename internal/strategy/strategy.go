// Package strategy contiene las cinco estrategias de "edge" sobre spreads de
// opciones. Cada una es una cadena de puertas declarativas sobre las métricas
// de un ticker: las puertas se evalúan en orden fijo y la primera que falla
// corta la evaluación con la fuerza parcial acumulada.
package strategy

import (
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Clock inyecta el tiempo de referencia para la comparación de earnings.
// Las estrategias son deterministas dado (métricas, clock); los tests
// congelan el clock.
type Clock func() time.Time

// Info es la metadata estática de una estrategia.
// Key y Alias los rellena el registry, no la propia estrategia.
type Info struct {
	Key             string
	Alias           string
	Name            string
	Description     string
	EdgeType        string // trend | volatility | mean_reversion
	RiskLevel       string // low | medium | medium-high | high
	ExpectedWinRate float64
	TypicalHoldDays int
}

// OptionStructure describe la construcción de opciones objetivo de la
// estrategia: ventana DTE, deltas objetivo y límites de débito/crédito.
// Los campos no aplicables a un tipo de estructura quedan en cero.
type OptionStructure struct {
	Type         string // debit_spread | credit_spread | long_otm | iron_condor
	DTEMin       int
	DTEMax       int
	LongDelta    float64
	ShortDelta   float64
	TargetDelta  float64 // solo long_otm
	MaxDebitPct  float64
	MinCreditPct float64
	MaxCostPct   float64 // solo long_otm: máx % del precio del subyacente
}

// ExitRules describe las reglas de salida de la estrategia.
type ExitRules struct {
	TakeProfitPct float64
	StopLossPct   float64
	TimeStopDTE   int
	Trigger       string // condición cualitativa, p.ej. "exit on trend break"
}

// Strategy es el contrato que implementan las cinco variantes.
// CheckEntry es una función pura: nunca lanza panic por datos faltantes,
// los convierte en un resultado fallido con la razón correspondiente.
type Strategy interface {
	Info() Info
	CheckEntry(ticker string, m domain.TickerMetrics) domain.StrategyResult
	OptionStructure() OptionStructure
	ExitRules() ExitRules
}

// clockOrNow normaliza un Clock nil a time.Now.
func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// orDefault devuelve *p o def si p es nil. Equivale al "valor por defecto
// neutro" que varias puertas usan para campos blandos (RSI 50, retorno 0).
func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// capStrength limita la signal strength al máximo de 100.
func capStrength(s float64) float64 {
	if s > 100 {
		return 100
	}
	return s
}
