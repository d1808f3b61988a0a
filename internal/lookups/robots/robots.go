// Package robots implements the robots.txt and sitemap.xml lookup.
package robots

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/lookups/web"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/httpclient"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryRobots,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "Fetches robots.txt and sitemap.xml from the first reachable scheme",
		},
	)
}

const (
	lookupName = "robots"

	// maxContentChars limita el texto volcado al informe por fichero
	maxContentChars = 8 << 10
	truncatedSuffix = "\n... (truncated)"
	failedRetrieve  = "Failed to retrieve."
)

// Files se consultan en este orden; cada uno es un campo del payload.
var Files = []string{"robots.txt", "sitemap.xml"}

// Lookup implementa ports.Lookup para la categoría robots.
type Lookup struct {
	*web.BaseLookup
}

// New crea el lookup de robots/sitemap.
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
	return domain.CategoryRobots
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	payload := domain.NewPayload()

	var (
		base string
		errs []error
	)
	for _, file := range Files {
		resp, err := l.fetch(ctx, target, &base, file)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.Logger.Debug("fetch failed", "file", file, "error", err.Error())
			errs = append(errs, err)
			payload.Set(file, failedRetrieve)
			continue
		}
		payload.Set(file, describe(resp))
	}

	if len(errs) == len(Files) {
		return nil, errors.Unreachable(errs...)
	}
	return payload, nil
}

// fetch reutiliza la URL base descubierta con el primer fichero.
func (l *Lookup) fetch(ctx context.Context, target domain.Target, base *string, file string) (*httpclient.Response, error) {
	if *base != "" {
		return l.Get(ctx, *base+"/"+file)
	}
	resp, found, err := l.FetchFirst(ctx, http.MethodGet, target, "/"+file)
	if err != nil {
		return nil, err
	}
	*base = found
	return resp, nil
}

func describe(resp *httpclient.Response) string {
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Not found (Status: %d)", resp.StatusCode)
	}

	text := strings.TrimSpace(string(resp.Body))
	if text == "" {
		return "(empty)"
	}
	if len(text) > maxContentChars {
		text = strings.ToValidUTF8(text[:maxContentChars], "") + truncatedSuffix
	}
	return text
}
