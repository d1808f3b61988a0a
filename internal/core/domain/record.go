// internal/core/domain/record.go
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// LookupResult es la variante etiquetada por categoría: o bien un payload
// exitoso o bien un motivo de fallo, nunca ambos.
type LookupResult struct {
	Category Category
	Payload  *Payload
	Failure  string
	Duration time.Duration
}

// Succeeded construye un resultado exitoso. Un payload nil se trata como vacío.
func Succeeded(cat Category, payload *Payload, d time.Duration) LookupResult {
	if payload == nil {
		payload = NewPayload()
	}
	return LookupResult{Category: cat, Payload: payload, Duration: d}
}

// Failed construye un resultado fallido con un motivo legible.
func Failed(cat Category, reason string, d time.Duration) LookupResult {
	if reason == "" {
		reason = "unknown error"
	}
	return LookupResult{Category: cat, Failure: reason, Duration: d}
}

// OK indica si el lookup terminó con éxito.
func (r LookupResult) OK() bool {
	return r.Payload != nil && r.Failure == ""
}

// Status retorna "ok" o "not available".
func (r LookupResult) Status() string {
	if r.OK() {
		return "ok"
	}
	return "not available"
}

func (r LookupResult) clone() LookupResult {
	if r.Payload != nil {
		r.Payload = r.Payload.Clone()
	}
	return r
}

// MissingReason es el motivo registrado para una categoría sin resultado.
const MissingReason = "lookup not run"

// ReconRecord es la colección ordenada de resultados de un target. Se crea
// una vez por ejecución y es inmutable: los accesores devuelven copias.
type ReconRecord struct {
	target     Target
	startedAt  time.Time
	finishedAt time.Time
	results    []LookupResult
}

// NewReconRecord construye el registro garantizando exactamente una entrada
// por categoría en orden de informe. Si una categoría aparece dos veces se
// conserva la primera; si falta se registra como fallo.
func NewReconRecord(target Target, startedAt, finishedAt time.Time, results []LookupResult) *ReconRecord {
	byCategory := make(map[Category]LookupResult, len(results))
	for _, r := range results {
		if !r.Category.IsValid() {
			continue
		}
		if _, seen := byCategory[r.Category]; seen {
			continue
		}
		byCategory[r.Category] = r.clone()
	}

	ordered := make([]LookupResult, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		r, ok := byCategory[cat]
		if !ok {
			r = Failed(cat, MissingReason, 0)
		}
		switch {
		case r.Failure != "":
			r.Payload = nil
		case r.Payload == nil:
			r.Payload = NewPayload()
		}
		ordered = append(ordered, r)
	}

	return &ReconRecord{
		target:     target,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		results:    ordered,
	}
}

// Target retorna el objetivo del registro.
func (r *ReconRecord) Target() Target { return r.target }

// StartedAt retorna el inicio del despacho.
func (r *ReconRecord) StartedAt() time.Time { return r.startedAt }

// FinishedAt retorna el fin del despacho.
func (r *ReconRecord) FinishedAt() time.Time { return r.finishedAt }

// Duration retorna la duración total del despacho.
func (r *ReconRecord) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

// Results retorna una copia de los resultados en orden de informe.
func (r *ReconRecord) Results() []LookupResult {
	out := make([]LookupResult, len(r.results))
	for i, res := range r.results {
		out[i] = res.clone()
	}
	return out
}

// Result retorna el resultado de una categoría.
func (r *ReconRecord) Result(cat Category) (LookupResult, bool) {
	for _, res := range r.results {
		if res.Category == cat {
			return res.clone(), true
		}
	}
	return LookupResult{}, false
}

// Failures retorna solo los resultados fallidos.
func (r *ReconRecord) Failures() []LookupResult {
	var out []LookupResult
	for _, res := range r.results {
		if !res.OK() {
			out = append(out, res.clone())
		}
	}
	return out
}

// Summary retorna un resumen legible del registro.
func (r *ReconRecord) Summary() string {
	return fmt.Sprintf("ReconRecord{target=%s, results=%d, failures=%d, duration=%s}",
		r.target.Domain,
		len(r.results),
		len(r.Failures()),
		r.Duration(),
	)
}

type resultJSON struct {
	Category   Category `json:"category"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	DurationMS int64    `json:"duration_ms"`
	Payload    *Payload `json:"payload,omitempty"`
	Failure    string   `json:"failure,omitempty"`
}

type recordJSON struct {
	Target     string       `json:"target"`
	Input      string       `json:"input,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []resultJSON `json:"results"`
}

// MarshalJSON serializa el registro completo para el export JSON.
func (r *ReconRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Target:     r.target.Domain,
		Input:      r.target.Input,
		StartedAt:  r.startedAt.UTC(),
		FinishedAt: r.finishedAt.UTC(),
		Results:    make([]resultJSON, 0, len(r.results)),
	}
	for _, res := range r.results {
		out.Results = append(out.Results, resultJSON{
			Category:   res.Category,
			Title:      res.Category.Title(),
			Status:     res.Status(),
			DurationMS: res.Duration.Milliseconds(),
			Payload:    res.Payload,
			Failure:    res.Failure,
		})
	}
	return json.Marshal(out)
}
