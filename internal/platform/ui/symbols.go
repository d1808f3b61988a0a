// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"dossier/internal/core/domain"
)

// Status es el estado visual de una sección del informe.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
	StatusSkipped // el lookup no llegó a ejecutarse (cancelado o ausente)
)

type statusLook struct {
	name   string
	symbol string
	color  pterm.Color
}

var statusLooks = map[Status]statusLook{
	StatusSuccess: {"success", "✓", pterm.FgGreen},
	StatusFailed:  {"failed", "✗", pterm.FgRed},
	StatusSkipped: {"skipped", "–", pterm.FgGray},
}

func (s Status) look() statusLook {
	if l, ok := statusLooks[s]; ok {
		return l
	}
	return statusLook{"unknown", "?", pterm.FgDefault}
}

func (s Status) String() string      { return s.look().name }
func (s Status) Symbol() string      { return s.look().symbol }
func (s Status) Style() *pterm.Style { return pterm.NewStyle(s.look().color) }

// statusFor traduce un resultado al estado visual.
func statusFor(result domain.LookupResult) Status {
	switch {
	case result.OK():
		return StatusSuccess
	case result.Failure == "canceled" || result.Failure == domain.MissingReason:
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// Iconos de los paneles
const (
	IconTarget = "🎯"
	IconTime   = "⏱"
	IconReport = "📄"
	IconStats  = "📊"
	IconLookup = "🔎"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
