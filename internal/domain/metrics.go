package domain

// TickerMetrics es el registro de métricas derivadas que el data collaborator
// entrega por ticker. Los campos puntero son opcionales: nil significa que el
// dato no pudo calcularse y las estrategias deben tratarlo como insuficiente
// (fail closed), salvo los campos blandos (IVRank, EarningsDate, Options).
type TickerMetrics struct {
	Price float64

	// Medias móviles de 20 y 50 sesiones.
	MA20 *float64
	MA50 *float64

	// Retornos en porcentaje: 3.2 significa +3.2%.
	Return1D  *float64
	Return5D  *float64
	Return20D *float64

	// Volatilidad realizada anualizada, en porcentaje.
	RealizedVol *float64

	// RSI de 14 sesiones, 0-100.
	RSI *float64

	// IVRank 0-100: posición de la vol actual dentro de su rango anual.
	IVRank *float64

	// EarningsDate en formato YYYY-MM-DD; vacío si se desconoce.
	EarningsDate string

	// Options es la cadena de opciones; nil si el caller no la descargó.
	Options *OptionsChain
}

// OptionsChain es la cadena de opciones para un vencimiento concreto.
type OptionsChain struct {
	CurrentPrice float64
	Expiration   string // YYYY-MM-DD
	DTE          int    // días hasta vencimiento (ventana objetivo 30-45, fallback 20-60)
	Calls        []OptionRow
	Puts         []OptionRow
}

// OptionRow es una fila de la cadena: un strike con sus precios y liquidez.
// Volume y OpenInterest son punteros porque el proveedor puede no informarlos.
type OptionRow struct {
	Strike       float64
	Bid          float64
	Ask          float64
	Volume       *int
	OpenInterest *int
}

// Spread devuelve el ancho bid-ask absoluto.
func (r OptionRow) Spread() float64 {
	return r.Ask - r.Bid
}

// Mid devuelve el punto medio bid-ask.
func (r OptionRow) Mid() float64 {
	return (r.Ask + r.Bid) / 2
}

// SpreadPct devuelve el spread como fracción del mid.
// Devuelve 1 (100%) si el mid no es positivo, para que un strike sin
// cotización real nunca pase un filtro de liquidez.
func (r OptionRow) SpreadPct() float64 {
	mid := r.Mid()
	if mid <= 0 {
		return 1
	}
	return r.Spread() / mid
}

// OI devuelve el open interest, o 0 si se desconoce.
func (r OptionRow) OI() int {
	if r.OpenInterest == nil {
		return 0
	}
	return *r.OpenInterest
}

// Vol devuelve el volumen diario, o 0 si se desconoce.
func (r OptionRow) Vol() int {
	if r.Volume == nil {
		return 0
	}
	return *r.Volume
}

// Float es un helper para construir campos opcionales en tests y mappers.
func Float(v float64) *float64 { return &v }

// Int es el equivalente de Float para enteros opcionales.
func Int(v int) *int { return &v }
