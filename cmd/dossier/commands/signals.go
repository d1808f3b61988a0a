package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// rootContextWithSignals deriva un contexto que se cancela con SIGINT/SIGTERM.
// La cancelación es cooperativa: el escaneo termina los lookups pendientes
// como "canceled" y el informe se escribe igualmente.
// La función retornada libera el handler de señales y la goroutine.
func rootContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	base, baseCancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}
	return base, cleanup
}
