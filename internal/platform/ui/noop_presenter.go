// internal/platform/ui/noop_presenter.go
package ui

import "dossier/internal/core/domain"

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

func (n *NoopPresenter) Start(ScanInfo)                               {}
func (n *NoopPresenter) LookupStarted(domain.Category, int, int)      {}
func (n *NoopPresenter) LookupFinished(domain.LookupResult, int, int) {}
func (n *NoopPresenter) Info(string)                                  {}
func (n *NoopPresenter) Warning(string)                               {}
func (n *NoopPresenter) Error(string)                                 {}
func (n *NoopPresenter) Finish(*domain.ReconRecord, string)           {}
func (n *NoopPresenter) Close() error                                 { return nil }
