package domain

// Direction es la dirección del trade propuesto.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
	Neutral Direction = "NEUTRAL"
)

// Trade types producidos por las estrategias.
const (
	TradeCallDebit  = "CALL_DEBIT"
	TradePutDebit   = "PUT_DEBIT"
	TradeCallCredit = "CALL_CREDIT"
	TradePutCredit  = "PUT_CREDIT"
	TradeCallLong   = "CALL_LONG"
	TradePutLong    = "PUT_LONG"
	TradeIronCondor = "IRON_CONDOR"
)

// StrategyResult es el veredicto de una estrategia sobre un ticker.
//
// Invariantes:
//   - Passed=true implica Direction != "" y TradeType != "".
//   - Reasons nunca está vacío: cada camino de decisión añade al menos una
//     explicación legible, con la primera puerta que falló en primer lugar.
//   - SignalStrength (0-100) solo sirve para ordenar dentro de un scan,
//     no es una probabilidad calibrada.
type StrategyResult struct {
	Ticker         string
	Passed         bool
	Direction      Direction // vacío si se rechazó antes de determinar dirección
	SignalStrength float64
	Reasons        []string
	TradeType      string // vacío cuando se rechaza antes de elegir tipo
}

// Reject construye un resultado fallido con la fuerza parcial de la última
// puerta completada.
func Reject(ticker string, direction Direction, strength float64, reasons []string) StrategyResult {
	return StrategyResult{
		Ticker:         ticker,
		Passed:         false,
		Direction:      direction,
		SignalStrength: strength,
		Reasons:        reasons,
	}
}
