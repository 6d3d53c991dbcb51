package domain

// SpreadLeg es una pata concreta de un spread: strike, precios y delta estimada.
type SpreadLeg struct {
	Strike float64
	Bid    float64
	Ask    float64
	Delta  float64
}

// Mid devuelve el punto medio bid-ask de la pata.
func (l SpreadLeg) Mid() float64 {
	return (l.Ask + l.Bid) / 2
}

// SpreadCandidate es un debit spread concreto propuesto por el generador de
// candidatos: strikes, precios de entrada y números de riesgo.
//
// Solo se construye cuando SpreadWidth > 0, MaxDebit > 0 y
// MaxDebit/SpreadWidth <= 0.30 (inclusive).
type SpreadCandidate struct {
	Ticker     string
	Direction  Direction
	SpreadType string // CALL_DEBIT | PUT_DEBIT

	Long  SpreadLeg // pata comprada
	Short SpreadLeg // pata vendida

	Expiration   string
	DTE          int
	CurrentPrice float64

	SpreadWidth float64 // |short strike - long strike|
	MaxDebit    float64 // peor entrada: long ask - short bid
	MidDebit    float64 // entrada a mid: long mid - short mid
	MaxProfit   float64 // spread width - mid debit
	MaxLoss     float64 // mid debit pagado
	Breakeven   float64 // long strike ± mid debit según call/put
	RiskReward  float64 // max profit / mid debit

	SpreadPct    float64 // spread bid-ask promedio de ambas patas
	OpenInterest int     // suma de OI de ambas patas
}
