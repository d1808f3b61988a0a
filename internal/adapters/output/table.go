// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"dossier/internal/core/domain"
	"dossier/internal/platform/errors"
)

// maxReasonWidth recorta los motivos de fallo largos en la tabla.
const maxReasonWidth = 60

// RenderTable imprime en w una tabla resumen del registro: una fila por
// categoría con su estado, duración y motivo de fallo.
func RenderTable(record *domain.ReconRecord, w io.Writer) error {
	if record == nil {
		return domain.ErrNilRecord
	}

	data := pterm.TableData{
		{"Section", "Status", "Time", "Details"},
	}
	webTotal, webFailed := 0, 0
	for _, res := range record.Results() {
		if res.Category.RequiresWebServer() {
			webTotal++
			if !res.OK() {
				webFailed++
			}
		}
		status := pterm.Green(res.Status())
		details := fmt.Sprintf("%d fields", res.Payload.Len())
		if !res.OK() {
			status = pterm.Red(res.Status())
			details = truncate(res.Failure, maxReasonWidth)
		}
		data = append(data, []string{
			res.Category.Title(),
			status,
			res.Duration.Round(time.Millisecond).String(),
			details,
		})
	}

	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	header := fmt.Sprintf("Target: %s   Duration: %s   Failures: %d/%d",
		record.Target().Domain,
		record.Duration().Round(time.Millisecond),
		len(record.Failures()),
		len(record.Results()),
	)
	// Todas las secciones web caídas: el objetivo no tiene servidor accesible
	if webTotal > 0 && webFailed == webTotal {
		header += "   Web server: unreachable"
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", header, rendered); err != nil {
		return errors.Wrap(err, "failed to write table")
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
