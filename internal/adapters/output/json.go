// internal/adapters/output/json.go
package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/platform/errors"
)

// JSONPath deriva la ruta del export JSON a partir de la del informe PDF.
// Ejemplo: "reports/example_com_1700000000.pdf" -> "reports/example_com_1700000000.json"
func JSONPath(reportPath string) string {
	if strings.HasSuffix(strings.ToLower(reportPath), ".pdf") {
		return reportPath[:len(reportPath)-len(".pdf")] + ".json"
	}
	return reportPath + ".json"
}

// EncodeJSON escribe el registro con indentación en w.
func EncodeJSON(record *domain.ReconRecord, w io.Writer) error {
	if record == nil {
		return domain.ErrNilRecord
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// WriteJSON exporta el registro en formato JSON a path.
func WriteJSON(record *domain.ReconRecord, path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ErrInvalidOutputPath
	}

	var buf bytes.Buffer
	if err := EncodeJSON(record, &buf); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}
