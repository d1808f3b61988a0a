// Package meta implements the HTML metadata lookup: page title plus every
// named meta tag of the landing page.
package meta

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/lookups/web"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryMeta,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "Title and meta tags of the landing page",
			Libraries:   []string{"github.com/PuerkitoBio/goquery"},
		},
	)
}

const (
	lookupName = "meta"
	noMetaInfo = "No meta tags found."

	titleField = "Title"
	infoField  = "Info"
	// prefijo para los tags que chocan con un campo propio
	tagPrefix  = "meta:"
)

// Lookup implementa ports.Lookup para la categoría meta.
type Lookup struct {
	*web.BaseLookup
}

// New crea el lookup de metadatos HTML.
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
	return domain.CategoryMeta
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	resp, _, err := l.FetchFirst(ctx, http.MethodGet, target, "/")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "failed to parse HTML: %v", err)
	}

	payload := extract(doc)
	l.Logger.Debug("metadata extracted", "url", resp.FinalURL, "fields", payload.Len())
	return payload, nil
}

// extract lee el título y los meta tags en orden de documento. Solo cuentan
// los tags con content; ante nombres repetidos gana el primero. Un tag
// llamado "title" o "info" se guarda como "meta:<nombre>".
func extract(doc *goquery.Document) *domain.Payload {
	payload := domain.NewPayload()

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		payload.Set(titleField, collapseSpaces(title))
	}

	tags := 0
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		content = strings.TrimSpace(content)
		if !ok || content == "" {
			return
		}

		name := metaName(s)
		if name == "" {
			return
		}
		if reserved(name) {
			name = tagPrefix + name
		}
		if _, exists := payload.Get(name); exists {
			return
		}

		payload.Set(name, collapseSpaces(content))
		tags++
	})

	if tags == 0 {
		payload.Set(infoField, noMetaInfo)
	}
	return payload
}

// reserved indica si name coincide, sin distinguir mayúsculas, con un campo
// que genera el propio lookup.
func reserved(name string) bool {
	return strings.EqualFold(name, titleField) || strings.EqualFold(name, infoField)
}

// metaName prioriza name, luego property (Open Graph) y por último http-equiv.
func metaName(s *goquery.Selection) string {
	for _, attr := range []string{"name", "property", "http-equiv"} {
		if v, ok := s.Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
