// internal/platform/registry/lookup_registry.go
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/logx"
)

// LookupRegistry gestiona el registro y construcción de lookups.
// Implementa el patrón Registry + Factory para desacoplar la creación
// de lookups del código de aplicación.
type LookupRegistry struct {
	mu        sync.RWMutex
	factories map[domain.Category]LookupFactory
	metadata  map[domain.Category]ports.LookupMetadata
	logger    logx.Logger
}

// BuildError describe el fallo de construcción de un lookup concreto.
type BuildError struct {
	Category domain.Category
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build lookup %s: %v", e.Category, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// BuildFailures extrae los BuildError de un error retornado por Build.
func BuildFailures(err error) []*BuildError {
	if err == nil {
		return nil
	}

	var out []*BuildError
	var be *BuildError
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range multi.Unwrap() {
			if errors.As(e, &be) {
				out = append(out, be)
			}
		}
		return out
	}
	if errors.As(err, &be) {
		out = append(out, be)
	}
	return out
}

// LookupFactory es una función que crea una instancia de Lookup.
type LookupFactory func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error)

// globalRegistry es la instancia global del registry.
var globalRegistry *LookupRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *LookupRegistry {
	once.Do(func() {
		globalRegistry = NewLookupRegistry(logx.New())
	})
	return globalRegistry
}

// NewLookupRegistry crea un nuevo registry de lookups.
func NewLookupRegistry(logger logx.Logger) *LookupRegistry {
	return &LookupRegistry{
		factories: make(map[domain.Category]LookupFactory),
		metadata:  make(map[domain.Category]ports.LookupMetadata),
		logger:    logger.With("component", "lookup-registry"),
	}
}

// Register registra una factory para una categoría.
// Típicamente llamado desde init() de cada paquete de lookup.
func (r *LookupRegistry) Register(cat domain.Category, factory LookupFactory, meta ports.LookupMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !cat.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, cat)
	}

	if factory == nil {
		return fmt.Errorf("factory cannot be nil for lookup %s", cat)
	}

	if _, exists := r.factories[cat]; exists {
		return fmt.Errorf("lookup %s is already registered", cat)
	}

	meta.Category = cat
	r.factories[cat] = factory
	r.metadata[cat] = meta
	r.logger.Debug("lookup registered", "category", cat)

	return nil
}

// MustRegister es Register pero entra en pánico si falla. Pensado para init().
func (r *LookupRegistry) MustRegister(cat domain.Category, factory LookupFactory, meta ports.LookupMetadata) {
	if err := r.Register(cat, factory, meta); err != nil {
		panic(err)
	}
}

// Build construye todos los lookups registrados en orden de informe.
// Los errores de factory no detienen la construcción: se acumulan y se
// retornan junto con los lookups que sí se pudieron crear. La categoría
// afectada quedará registrada como fallo por el dispatcher.
func (r *LookupRegistry) Build(settings ports.LookupSettings, logger logx.Logger) ([]ports.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	categories := make([]domain.Category, 0, len(r.factories))
	for cat := range r.factories {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Index() < categories[j].Index()
	})

	lookups := make([]ports.Lookup, 0, len(categories))
	var errs []error

	for _, cat := range categories {
		lookup, err := r.factories[cat](settings, logger)
		if err == nil && lookup == nil {
			err = errors.New("factory returned nil")
		}
		if err != nil {
			errs = append(errs, &BuildError{Category: cat, Err: err})
			continue
		}
		lookups = append(lookups, lookup)
		r.logger.Debug("lookup built", "category", cat)
	}

	for _, err := range errs {
		r.logger.Warn("lookup build error", "error", err.Error())
	}

	logger.Debug("lookups built", "count", len(lookups), "registered", len(categories))
	return lookups, errors.Join(errs...)
}

// List retorna las categorías registradas en orden de informe.
func (r *LookupRegistry) List() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.factories))
	for _, cat := range domain.Categories() {
		if _, ok := r.factories[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// GetMetadata retorna el metadata de un lookup.
func (r *LookupRegistry) GetMetadata(cat domain.Category) (ports.LookupMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[cat]
	return meta, exists
}

// IsRegistered verifica si una categoría tiene lookup registrado.
func (r *LookupRegistry) IsRegistered(cat domain.Category) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[cat]
	return exists
}

// Clear elimina todos los lookups registrados (útil para testing).
func (r *LookupRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[domain.Category]LookupFactory)
	r.metadata = make(map[domain.Category]ports.LookupMetadata)
}
