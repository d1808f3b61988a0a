// internal/core/usecases/dispatcher.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
)

// NoLookupReason es el motivo registrado para una categoría sin lookup.
const NoLookupReason = "no lookup registered"

// Dispatcher ejecuta los lookups de forma secuencial en orden de informe y
// ensambla el ReconRecord. Un fallo en un lookup nunca aborta el resto.
type Dispatcher struct {
	lookups  map[domain.Category]ports.Lookup
	logger   logx.Logger
	progress ports.Progress
	timeout  time.Duration
	now      func() time.Time
}

// DispatcherOptions configura el dispatcher.
type DispatcherOptions struct {
	Lookups       []ports.Lookup
	Logger        logx.Logger
	Progress      ports.Progress
	LookupTimeout time.Duration
}

// NewDispatcher crea una nueva instancia del dispatcher. Si dos lookups
// declaran la misma categoría gana el primero.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Progress == nil {
		opts.Progress = ports.NopProgress{}
	}

	logger := opts.Logger.With("component", "dispatcher")
	lookups := make(map[domain.Category]ports.Lookup, len(opts.Lookups))
	for _, l := range opts.Lookups {
		if l == nil {
			continue
		}
		cat := l.Category()
		if _, dup := lookups[cat]; dup {
			logger.Warn("duplicate lookup ignored", "category", cat)
			continue
		}
		lookups[cat] = l
	}

	return &Dispatcher{
		lookups:  lookups,
		logger:   logger,
		progress: opts.Progress,
		timeout:  opts.LookupTimeout,
		now:      time.Now,
	}
}

// Run ejecuta todos los lookups contra el target. Solo un target inválido
// retorna error; cualquier otro problema queda como fallo de su categoría.
func (d *Dispatcher) Run(ctx context.Context, target domain.Target) (*domain.ReconRecord, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	categories := domain.Categories()
	total := len(categories)
	started := d.now()

	d.logger.Info("starting recon",
		"target", target.Domain,
		"lookups", len(d.lookups),
		"timeout", d.timeout,
	)

	results := make([]domain.LookupResult, 0, total)
	for i, cat := range categories {
		d.progress.LookupStarted(cat, i, total)
		result := d.runOne(ctx, cat, target)
		results = append(results, result)
		d.progress.LookupFinished(result, i, total)
	}

	record := domain.NewReconRecord(target, started, d.now(), results)
	d.logger.Info("recon completed",
		"target", target.Domain,
		"failures", len(record.Failures()),
		"duration", record.Duration(),
	)
	d.logger.Debug(record.Summary())
	return record, nil
}

// runOne ejecuta un único lookup aislando errores, panics y timeouts.
func (d *Dispatcher) runOne(ctx context.Context, cat domain.Category, target domain.Target) (result domain.LookupResult) {
	lookup, ok := d.lookups[cat]
	if !ok {
		d.logger.Warn("no lookup for category", "category", cat)
		return domain.Failed(cat, NoLookupReason, 0)
	}

	if ctx.Err() != nil {
		return domain.Failed(cat, errors.Describe(ctx.Err()), 0)
	}

	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := d.now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("lookup panicked", "category", cat, "panic", fmt.Sprint(r))
			result = domain.Failed(cat, fmt.Sprintf("internal error: %v", r), d.now().Sub(start))
		}
	}()

	d.logger.Debug("executing lookup", "category", cat)
	payload, err := lookup.Run(runCtx, target)
	elapsed := d.now().Sub(start)

	if err != nil {
		// Un timeout propio del lookup se distingue de la cancelación del padre
		if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrTimeout, err.Error())
		}
		reason := errors.Describe(err)
		d.logger.Warn("lookup failed", "category", cat, "reason", reason, "error", err.Error())
		return domain.Failed(cat, reason, elapsed)
	}

	d.logger.Debug("lookup completed", "category", cat, "duration", elapsed)
	return domain.Succeeded(cat, payload, elapsed)
}
