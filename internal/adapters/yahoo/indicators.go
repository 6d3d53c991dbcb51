package yahoo

import (
	"math"
)

// Los indicadores replican las derivaciones clásicas sobre velas diarias:
// medias móviles simples, retornos porcentuales, RSI de 14 periodos sobre
// medias simples de ganancias/pérdidas, y volatilidad realizada de 20 días
// anualizada con sqrt(252).

const (
	maShortWindow  = 20
	maLongWindow   = 50
	rsiWindow      = 14
	volWindow      = 20
	tradingDays    = 252
	ivRankMinBars  = 252
	ivRankMinRolls = 50
)

// sma devuelve la media simple de los últimos window cierres, o false si no
// hay suficientes datos.
func sma(closes []float64, window int) (float64, bool) {
	if len(closes) < window {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), true
}

// pctChange devuelve el retorno porcentual a lag días vista.
func pctChange(closes []float64, lag int) (float64, bool) {
	n := len(closes)
	if n < lag+1 {
		return 0, false
	}
	prev := closes[n-1-lag]
	if prev == 0 {
		return 0, false
	}
	return (closes[n-1]/prev - 1) * 100, true
}

// rsi calcula el RSI de 14 periodos con medias simples de gains/losses.
func rsi(closes []float64) (float64, bool) {
	if len(closes) < rsiWindow+1 {
		return 0, false
	}
	var gains, losses float64
	start := len(closes) - rsiWindow
	for i := start; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / rsiWindow
	avgLoss := losses / rsiWindow
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// dailyReturns devuelve los retornos simples día a día.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// stdev es la desviación estándar muestral (ddof=1).
func stdev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// realizedVol devuelve la vol realizada de 20 días anualizada, en porcentaje.
func realizedVol(closes []float64) (float64, bool) {
	rets := dailyReturns(closes)
	if len(rets) < volWindow {
		return 0, false
	}
	vol := stdev(rets[len(rets)-volWindow:]) * math.Sqrt(tradingDays)
	return vol * 100, true
}

// ivRank aproxima el IV rank con vol realizada rolling de 20 días sobre un
// año de velas: posición de la vol actual entre el mínimo y máximo anual,
// escalada a 0-100. Sin datos de IV implícita real, la vol histórica es el
// proxy habitual.
func ivRank(closes []float64) (float64, bool) {
	if len(closes) < ivRankMinBars {
		return 0, false
	}
	rets := dailyReturns(closes)
	if len(rets) < volWindow {
		return 0, false
	}

	rolling := make([]float64, 0, len(rets)-volWindow+1)
	for i := volWindow; i <= len(rets); i++ {
		rolling = append(rolling, stdev(rets[i-volWindow:i])*math.Sqrt(tradingDays))
	}
	if len(rolling) < ivRankMinRolls {
		return 0, false
	}

	current := rolling[len(rolling)-1]
	lo, hi := rolling[0], rolling[0]
	for _, v := range rolling {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return 50, true
	}
	rank := (current - lo) / (hi - lo) * 100
	return math.Round(rank*10) / 10, true
}

// round2 redondea a dos decimales, como presenta los valores el resto del
// pipeline.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 redondea a un decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
