// Package whois implements the registration lookup: a port-43 WHOIS query
// for the registrable domain, parsed with whois-parser, with a regex
// extractor for formats the parser rejects and an RDAP fallback when the
// WHOIS server cannot be reached.
package whois

import (
	"context"
	"strings"
	"time"

	likexian "github.com/likexian/whois"
	"golang.org/x/net/publicsuffix"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/httpclient"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

// Auto-registro del lookup al importar el package
func init() {
	registry.Global().MustRegister(
		domain.CategoryWhois,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "Domain registration data over WHOIS (port 43) with RDAP fallback",
			Libraries: []string{
				"github.com/likexian/whois",
				"github.com/likexian/whois-parser",
				"golang.org/x/net/publicsuffix",
			},
		},
	)
}

const lookupName = "whois"

// Origen de los datos en el campo Source
const (
	sourceWhois = "whois"
	sourceRDAP  = "rdap"
)

// ErrNotRegistered indica que el registro respondió pero el dominio está libre.
var ErrNotRegistered = errors.New("domain is not registered")

// querier abstrae el cliente WHOIS de puerto 43.
type querier interface {
	Whois(domain string, servers ...string) (string, error)
}

// Lookup implementa ports.Lookup para la categoría whois.
type Lookup struct {
	querier  querier
	server   string
	client   *httpclient.Client
	rdapBase string
	logger   logx.Logger
}

// New crea el lookup WHOIS a partir de la configuración compartida.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	client := likexian.NewClient()
	if settings.HTTPTimeout > 0 {
		client.SetTimeout(settings.HTTPTimeout)
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = settings.HTTPTimeout
	httpCfg.UserAgent = settings.UserAgent

	return &Lookup{
		querier:  client,
		server:   settings.WhoisServer,
		client:   httpclient.New(httpCfg, logger),
		rdapBase: strings.TrimRight(settings.RDAPBaseURL, "/"),
		logger:   logger.With("lookup", lookupName),
	}
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryWhois
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	name := registrableDomain(target.Domain)
	if name == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "could not extract registrable domain")
	}

	l.logger.Debug("querying WHOIS", "domain", name, "server", l.server)

	start := time.Now()
	raw, err := l.query(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		l.logger.Warn("WHOIS query failed, trying RDAP",
			"domain", name,
			"error", err.Error(),
		)

		payload, rdapErr := l.queryRDAP(ctx, name)
		if errors.Is(rdapErr, ErrNotRegistered) {
			return nil, ErrNotRegistered
		}
		if rdapErr != nil {
			return nil, errors.Wrapf(errors.Join(err, rdapErr), "WHOIS and RDAP failed for %s", name)
		}
		return payload, nil
	}

	payload, err := parseWhois(name, raw)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("WHOIS query completed",
		"domain", name,
		"fields", payload.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return payload, nil
}

// query ejecuta la consulta de puerto 43 respetando la cancelación del contexto.
// El cliente no acepta context, así que la goroutine puede sobrevivir hasta su
// propio timeout; el canal tiene buffer para que no quede bloqueada.
func (l *Lookup) query(ctx context.Context, name string) (string, error) {
	type answer struct {
		raw string
		err error
	}

	var servers []string
	if l.server != "" {
		servers = append(servers, l.server)
	}

	ch := make(chan answer, 1)
	go func() {
		raw, err := l.querier.Whois(name, servers...)
		ch <- answer{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		if a.err != nil {
			return "", a.err
		}
		if strings.TrimSpace(a.raw) == "" {
			return "", errors.Wrap(errors.ErrInvalidResponse, "empty WHOIS response")
		}
		return a.raw, nil
	}
}

// registrableDomain reduce el host a su eTLD+1 (www.example.co.uk -> example.co.uk).
func registrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return ""
	}

	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Sufijos sin regla (localhost, TLD sueltos): se consultan tal cual
		return host
	}
	return base
}
