package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// MarketDataProvider entrega las métricas ya derivadas por ticker. Toda la
// concurrencia, el rate limiting y los timeouts viven detrás de esta
// interfaz: el core consume el mapping completo de forma síncrona.
type MarketDataProvider interface {
	// FetchMetrics devuelve las métricas de los tickers dados. Un ticker
	// que falla se omite del mapa; solo errores globales (red, contexto)
	// abortan el fetch completo.
	FetchMetrics(ctx context.Context, tickers []string) (map[string]domain.TickerMetrics, error)
}
