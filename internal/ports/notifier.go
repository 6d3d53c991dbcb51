package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Notifier presenta el resultado de un scan al usuario.
type Notifier interface {
	// Notify muestra los resultados ordenados y los spread candidates.
	// En la implementación de consola imprime tablas formateadas.
	Notify(ctx context.Context, scan domain.Scan) error
}
