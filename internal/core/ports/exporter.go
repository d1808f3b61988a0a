// internal/core/ports/exporter.go
package ports

import (
	"io"

	"dossier/internal/core/domain"
)

// ReportWriter es el port para convertir un ReconRecord en un informe.
type ReportWriter interface {
	// Render escribe el informe completo en w
	Render(record *domain.ReconRecord, w io.Writer) error

	// WriteFile escribe el informe en path de una sola vez
	WriteFile(record *domain.ReconRecord, path string) error
}
