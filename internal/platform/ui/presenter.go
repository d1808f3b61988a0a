// internal/platform/ui/presenter.go
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
)

// UIMode define el modo de visualización
type UIMode string

const (
	UIModePretty UIMode = "pretty" // Spinners y paneles pterm (default)
	UIModeRaw    UIMode = "raw"    // Una línea de log por evento
	UIModeQuiet  UIMode = "quiet"  // Sin UI visual
)

// ParseUIMode convierte un string en UIMode.
func ParseUIMode(s string) (UIMode, error) {
	switch m := UIMode(strings.ToLower(strings.TrimSpace(s))); m {
	case UIModePretty, UIModeRaw, UIModeQuiet:
		return m, nil
	case "":
		return UIModePretty, nil
	default:
		return "", fmt.Errorf("unknown ui mode %q (valid: pretty, raw, quiet)", s)
	}
}

// Presenter presenta el progreso del reconocimiento. Recibe los eventos del
// dispatcher a través de ports.Progress, siempre desde la misma goroutine.
type Presenter interface {
	ports.Progress

	// Start inicia la presentación con información del escaneo
	Start(info ScanInfo)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con el registro y la ruta del informe
	Finish(record *domain.ReconRecord, reportPath string)

	// Close limpia recursos del presenter
	Close() error
}

// ScanInfo contiene información inicial del escaneo
type ScanInfo struct {
	Target             string
	Input              string
	Lookups            int
	TimeoutSeconds     int
	HTTPTimeoutSeconds int
	OutputPath         string
}

// Options configura la construcción de un presenter.
type Options struct {
	Mode      UIMode
	LogFormat LogFormat

	// Writer destino de la salida raw (nil = stdout)
	Writer io.Writer
}

// New construye el presenter apropiado para el modo.
func New(opts Options) Presenter {
	switch opts.Mode {
	case UIModeQuiet:
		return NewNoopPresenter()
	case UIModeRaw:
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return NewRawPresenter(w, opts.LogFormat)
	default:
		return NewPTermPresenter()
	}
}

// summarize cuenta éxitos y fallos de un registro.
func summarize(record *domain.ReconRecord) (ok, failed int, d time.Duration) {
	if record == nil {
		return 0, 0, 0
	}
	failed = len(record.Failures())
	return len(record.Results()) - failed, failed, record.Duration()
}
