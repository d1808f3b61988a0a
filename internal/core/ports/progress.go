// internal/core/ports/progress.go
package ports

import "dossier/internal/core/domain"

// Progress recibe notificaciones del dispatcher alrededor de cada lookup.
// Se invoca siempre desde la goroutine del dispatcher, en orden.
type Progress interface {
	// LookupStarted se llama justo antes de ejecutar un lookup
	LookupStarted(cat domain.Category, index, total int)

	// LookupFinished se llama con el resultado ya registrado
	LookupFinished(result domain.LookupResult, index, total int)
}

// NopProgress descarta todas las notificaciones.
type NopProgress struct{}

func (NopProgress) LookupStarted(domain.Category, int, int)      {}
func (NopProgress) LookupFinished(domain.LookupResult, int, int) {}
