package domain

import "time"

// Scan es el resultado completo de un ciclo de evaluación: todos los
// resultados ordenados por (passed, signal strength) y los spread candidates
// generados para los que pasaron con dirección. Es un value object transitorio,
// se construye fresco en cada ciclo y no se muta después.
type Scan struct {
	ID           string // uuid del ciclo
	StrategyKey  string
	StrategyName string
	StartedAt    time.Time
	Duration     time.Duration

	Results    []StrategyResult
	Candidates []SpreadCandidate
}

// PassedCount devuelve cuántos tickers pasaron los filtros de entrada.
func (s Scan) PassedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Passed {
			n++
		}
	}
	return n
}

// BestStrength devuelve la mayor signal strength entre los que pasaron.
func (s Scan) BestStrength() float64 {
	best := 0.0
	for _, r := range s.Results {
		if r.Passed && r.SignalStrength > best {
			best = r.SignalStrength
		}
	}
	return best
}
