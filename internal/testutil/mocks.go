// internal/testutil/mocks.go
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Nota: los mocks de ports (lookups, progress) viven en sus respectivos
// paquetes de test. Aquí solo hay utilidades HTTP genéricas.

// Route describe la respuesta fija de una ruta en StaticSite.
type Route struct {
	Status  int
	Body    string
	Headers map[string]string
}

// StaticSite es un servidor httptest que responde rutas fijas y 404 al resto.
// Registra cada petición recibida para poder verificar qué se probó.
type StaticSite struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []string
}

// NewStaticSite arranca el servidor y lo cierra al terminar el test.
func NewStaticSite(t *testing.T, routes map[string]Route) *StaticSite {
	t.Helper()

	site := &StaticSite{routes: routes}
	site.Server = httptest.NewServer(http.HandlerFunc(site.handle))
	t.Cleanup(site.Server.Close)
	return site
}

func (s *StaticSite) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	route, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	for k, v := range route.Headers {
		w.Header().Set(k, v)
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	if loc := route.Headers["Location"]; loc != "" && status == http.StatusOK {
		status = http.StatusFound
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(route.Body))
	}
}

// Requests retorna una copia de las peticiones recibidas ("METHOD /path").
func (s *StaticSite) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.requests...)
}

// Host retorna host:port del servidor, útil como dominio objetivo en tests.
func (s *StaticSite) Host() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return ""
	}
	return u.Host
}
