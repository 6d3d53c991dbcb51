package strategy_test

import (
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

// Clock congelado: las puertas de earnings son deterministas en los tests.
var testNow = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func fixedClock() strategy.Clock {
	return func() time.Time { return testNow }
}

// baseMetrics construye métricas completas de un ticker sano con opciones.
func baseMetrics(price, ma20, ma50 float64) domain.TickerMetrics {
	return domain.TickerMetrics{
		Price:  price,
		MA20:   domain.Float(ma20),
		MA50:   domain.Float(ma50),
		RSI:    domain.Float(50),
		IVRank: domain.Float(40),
		Options: &domain.OptionsChain{
			CurrentPrice: price,
			Expiration:   "2025-07-11",
			DTE:          39,
			Calls: []domain.OptionRow{
				{Strike: price, Bid: 3.0, Ask: 3.2},
				{Strike: price * 1.05, Bid: 1.4, Ask: 1.5},
			},
			Puts: []domain.OptionRow{
				{Strike: price, Bid: 3.0, Ask: 3.2},
				{Strike: price * 0.95, Bid: 1.4, Ask: 1.5},
			},
		},
	}
}
