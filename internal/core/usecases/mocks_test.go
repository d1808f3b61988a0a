// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"fmt"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
)

// mockLookup es un mock de ports.Lookup para tests del dispatcher
type mockLookup struct {
	category     domain.Category
	runFunc      func(ctx context.Context, target domain.Target) (*domain.Payload, error)
	runCallCount int
}

func newMockLookup(cat domain.Category) *mockLookup {
	return &mockLookup{category: cat}
}

func (m *mockLookup) Category() domain.Category {
	return m.category
}

func (m *mockLookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	m.runCallCount++
	if m.runFunc != nil {
		return m.runFunc(ctx, target)
	}
	return domain.NewPayload().Set("Category", string(m.category)), nil
}

// mockLookupWithError creates a mock that always fails
func mockLookupWithError(cat domain.Category, err error) *mockLookup {
	mock := newMockLookup(cat)
	mock.runFunc = func(ctx context.Context, target domain.Target) (*domain.Payload, error) {
		return nil, err
	}
	return mock
}

// allMockLookups crea un mock exitoso por categoría
func allMockLookups() map[domain.Category]*mockLookup {
	mocks := make(map[domain.Category]*mockLookup)
	for _, cat := range domain.Categories() {
		mocks[cat] = newMockLookup(cat)
	}
	return mocks
}

func asLookups(mocks map[domain.Category]*mockLookup) []ports.Lookup {
	out := []ports.Lookup{}
	for _, cat := range domain.Categories() {
		if m, ok := mocks[cat]; ok {
			out = append(out, m)
		}
	}
	return out
}

// mockProgress registra las notificaciones recibidas en orden
type mockProgress struct {
	events []string
}

func (m *mockProgress) LookupStarted(cat domain.Category, index, total int) {
	m.events = append(m.events, fmt.Sprintf("start %s %d/%d", cat, index+1, total))
}

func (m *mockProgress) LookupFinished(result domain.LookupResult, index, total int) {
	m.events = append(m.events, fmt.Sprintf("finish %s %s %d/%d", result.Category, result.Status(), index+1, total))
}
