package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// ScanStorage persiste el histórico de scans. El core no persiste nada por
// sí mismo: el storage es un colaborador externo opcional.
type ScanStorage interface {
	// SaveScan guarda el resumen del ciclo y los resultados que pasaron.
	SaveScan(ctx context.Context, scan domain.Scan) error

	Close() error
}
