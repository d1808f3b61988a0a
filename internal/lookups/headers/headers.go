// Package headers implements the HTTP headers lookup with a small security
// header audit.
package headers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/lookups/web"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryHeaders,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "HEAD request following redirects plus security header audit",
		},
	)
}

const lookupName = "headers"

// SecurityHeaders es el conjunto auditado, en orden de informe.
var SecurityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

// Lookup implementa ports.Lookup para la categoría headers.
type Lookup struct {
	*web.BaseLookup
}

// New crea el lookup de cabeceras.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	return &Lookup{
		BaseLookup: web.NewBaseLookup(settings, logger, web.BaseConfig{
			LookupName:      lookupName,
			FollowRedirects: true,
		}),
	}
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryHeaders
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	resp, base, err := l.FetchFirst(ctx, http.MethodHead, target, "/")
	if err != nil {
		return nil, err
	}

	l.Logger.Debug("headers received", "base", base, "status", resp.StatusCode, "count", len(resp.Header))

	payload := domain.NewPayload()
	payload.Set("Final URL", resp.FinalURL)
	payload.Set("Status Code", strconv.Itoa(resp.StatusCode))
	payload.SetList("Headers", formatHeaders(resp.Header))
	payload.SetList("Missing Security Headers", missingSecurityHeaders(resp.Header))
	return payload, nil
}

// formatHeaders produce "Name: value" ordenado por nombre; los valores
// repetidos se unen con ", ".
func formatHeaders(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+": "+strings.Join(h.Values(name), ", "))
	}
	return out
}

func missingSecurityHeaders(h http.Header) []string {
	out := []string{}
	for _, name := range SecurityHeaders {
		if strings.TrimSpace(h.Get(name)) == "" {
			out = append(out, name)
		}
	}
	return out
}
