// internal/platform/ui/raw_presenter.go
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"dossier/internal/core/domain"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (logs sin formato visual)
type RawPresenter struct {
	out    io.Writer
	format LogFormat
	mu     sync.Mutex
	now    func() time.Time
}

// NewRawPresenter crea un nuevo RawPresenter que escribe en out
func NewRawPresenter(out io.Writer, format LogFormat) *RawPresenter {
	if format != LogFormatJSON {
		format = LogFormatText
	}
	return &RawPresenter{
		out:    out,
		format: format,
		now:    time.Now,
	}
}

// log escribe un log en el formato configurado
func (r *RawPresenter) log(level, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields map[string]interface{}) {
	parts := []string{timestamp, fmt.Sprintf("%-5s", level), message}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r.formatValue(fields[k])))
	}

	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields map[string]interface{}) {
	logEntry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}

	if len(fields) > 0 {
		data := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			if d, ok := v.(time.Duration); ok {
				v = d.String()
			}
			data[k] = v
		}
		logEntry["data"] = data
	}

	jsonBytes, _ := json.Marshal(logEntry)
	fmt.Fprintln(r.out, string(jsonBytes))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios)
func (r *RawPresenter) formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.Round(time.Millisecond).String()
	case float64:
		return fmt.Sprintf("%.1f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Start inicia la presentación
func (r *RawPresenter) Start(info ScanInfo) {
	r.log("INFO", "scan_started", map[string]interface{}{
		"target":       info.Target,
		"lookups":      info.Lookups,
		"timeout":      fmt.Sprintf("%ds", info.TimeoutSeconds),
		"http_timeout": fmt.Sprintf("%ds", info.HTTPTimeoutSeconds),
		"log_format":   string(r.format),
	})
}

// LookupStarted notifica el inicio de un lookup
func (r *RawPresenter) LookupStarted(cat domain.Category, index, total int) {
	r.log("INFO", "lookup_started", map[string]interface{}{
		"lookup":   cat.String(),
		"position": fmt.Sprintf("%d/%d", index+1, total),
	})
}

// LookupFinished notifica la finalización de un lookup
func (r *RawPresenter) LookupFinished(result domain.LookupResult, index, total int) {
	fields := map[string]interface{}{
		"lookup":   result.Category.String(),
		"position": fmt.Sprintf("%d/%d", index+1, total),
		"status":   statusFor(result).String(),
		"duration": result.Duration,
	}
	level := "INFO"
	if !result.OK() {
		level = "WARN"
		fields["reason"] = result.Failure
	} else {
		fields["fields"] = result.Payload.Len()
	}
	r.log(level, "lookup_completed", fields)
}

// Info muestra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning muestra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error muestra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Finish finaliza la presentación con estadísticas finales
func (r *RawPresenter) Finish(record *domain.ReconRecord, reportPath string) {
	ok, failed, d := summarize(record)
	r.log("INFO", "scan_completed", map[string]interface{}{
		"duration":       d,
		"lookups_ok":     ok,
		"lookups_failed": failed,
		"report":         reportPath,
	})
}

// Close limpia recursos
func (r *RawPresenter) Close() error {
	return nil
}
