// Package geo implements the IP geolocation lookup: it resolves the target
// to one address and asks an ipinfo-compatible JSON API where it lives.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/httpclient"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryGeo,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "Geolocation of the first resolved address via an ipinfo-style API",
		},
	)
}

const (
	lookupName   = "geo"
	notAvailable = "N/A"
)

// ErrNoAddress indica que el dominio no resolvió a ninguna IP.
var ErrNoAddress = errors.New("cannot geolocate without an IP address")

// resolver abstrae la resolución de nombres (net.Resolver en producción).
type resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ipInfo es la respuesta de ipinfo.io/<ip>/json
type ipInfo struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Org     string `json:"org"`
	Bogon   bool   `json:"bogon"`
}

// Lookup implementa ports.Lookup para la categoría geo.
type Lookup struct {
	resolver resolver
	client   *httpclient.Client
	baseURL  string
	logger   logx.Logger
}

// New crea el lookup de geolocalización.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = settings.HTTPTimeout
	httpCfg.UserAgent = settings.UserAgent

	return &Lookup{
		resolver: net.DefaultResolver,
		client:   httpclient.New(httpCfg, logger),
		baseURL:  strings.TrimRight(settings.GeoBaseURL, "/"),
		logger:   logger.With("lookup", lookupName),
	}
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryGeo
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	ip, err := l.resolve(ctx, target.Domain)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/json", l.baseURL, ip)
	l.logger.Debug("querying geolocation API", "ip", ip, "url", url)

	resp, err := l.client.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "geolocation API request failed")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "geolocation API returned status %d", resp.StatusCode)
	}

	var info ipInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "failed to parse geolocation response: %v", err)
	}

	payload := domain.NewPayload()
	payload.Set("IP Address", ip)
	payload.SetDefault("City", info.City, notAvailable)
	payload.SetDefault("Region", info.Region, notAvailable)
	payload.SetDefault("Country", info.Country, notAvailable)
	payload.SetDefault("Location", info.Loc, notAvailable)
	payload.SetDefault("Organization", info.Org, notAvailable)
	if info.Bogon {
		payload.Set("Note", "private or reserved address")
	}

	return payload, nil
}

// resolve retorna la primera IPv4 o, si no hay, la primera IPv6.
func (l *Lookup) resolve(ctx context.Context, host string) (string, error) {
	addrs, err := l.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.logger.Debug("address resolution failed", "host", host, "error", err.Error())
		return "", errors.Wrap(ErrNoAddress, errors.Describe(err))
	}

	var v6 string
	for _, addr := range addrs {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
		if v6 == "" {
			v6 = addr.IP.String()
		}
	}
	if v6 != "" {
		return v6, nil
	}
	return "", ErrNoAddress
}
