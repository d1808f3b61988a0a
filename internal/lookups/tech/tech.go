// Package tech implements the technology stack lookup using the Wappalyzer
// fingerprints shipped with projectdiscovery/wappalyzergo.
package tech

import (
	"context"
	"net/http"
	"sort"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/lookups/web"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryTech,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger)
		},
		ports.LookupMetadata{
			Description: "Wappalyzer fingerprinting of the landing page headers and body",
			Libraries:   []string{"github.com/projectdiscovery/wappalyzergo"},
		},
	)
}

const (
	lookupName   = "tech"
	noTechInfo   = "No specific technologies identified."
	notAvailable = "N/A"
)

// fingerprinter abstrae el cliente de wappalyzergo.
type fingerprinter interface {
	Fingerprint(headers map[string][]string, data []byte) map[string]struct{}
}

// Lookup implementa ports.Lookup para la categoría tech.
type Lookup struct {
	*web.BaseLookup
	fp fingerprinter
}

// New crea el lookup y carga las huellas embebidas.
func New(settings ports.LookupSettings, logger logx.Logger) (*Lookup, error) {
	client, err := wappalyzer.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load wappalyzer fingerprints")
	}

	return &Lookup{
		BaseLookup: web.NewBaseLookup(settings, logger, web.BaseConfig{
			LookupName:      lookupName,
			FollowRedirects: true,
		}),
		fp: client,
	}, nil
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryTech
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	resp, _, err := l.FetchFirst(ctx, http.MethodGet, target, "/")
	if err != nil {
		return nil, err
	}

	found := l.fp.Fingerprint(resp.Header, resp.Body)
	technologies := make([]string, 0, len(found))
	for name := range found {
		technologies = append(technologies, name)
	}
	sort.Strings(technologies)

	l.Logger.Debug("fingerprint completed", "url", resp.FinalURL, "technologies", len(technologies))

	payload := domain.NewPayload()
	payload.Set("URL", resp.FinalURL)
	payload.SetList("Technologies", technologies)
	payload.SetDefault("Server", resp.Header.Get("Server"), notAvailable)
	payload.SetDefault("X-Powered-By", resp.Header.Get("X-Powered-By"), notAvailable)
	if len(technologies) == 0 {
		payload.Set("Info", noTechInfo)
	}
	return payload, nil
}
