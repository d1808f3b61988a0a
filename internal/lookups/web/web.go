// Package web provides shared plumbing for the lookups that talk HTTP to the
// target itself (headers, robots, tech, meta, admin paths).
package web

import (
	"context"
	"net/http"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/httpclient"
	"dossier/internal/platform/logx"
)

// BaseLookup agrupa el cliente HTTP, los esquemas a probar y el logger.
//
// Usage:
//  1. Embed *BaseLookup in the lookup struct
//  2. Build it with NewBaseLookup in New()
//  3. Call FetchFirst / Fetch from Run()
type BaseLookup struct {
	Client  *httpclient.Client
	Schemes []string
	Logger  logx.Logger

	// HostFor traduce el dominio al host:port a contactar. Por defecto es la
	// identidad; los tests lo apuntan a un servidor local.
	HostFor func(domainName string) string
}

// BaseConfig ajusta el cliente HTTP de un lookup concreto.
type BaseConfig struct {
	LookupName      string  // Lookup name for logging
	FollowRedirects bool    // Follow 3xx responses
	RateLimit       float64 // Requests per second (0 = unpaced)
}

// NewBaseLookup construye la base a partir de la configuración compartida.
func NewBaseLookup(settings ports.LookupSettings, logger logx.Logger, cfg BaseConfig) *BaseLookup {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = settings.HTTPTimeout
	httpCfg.UserAgent = settings.UserAgent
	httpCfg.FollowRedirects = cfg.FollowRedirects
	httpCfg.RateLimit = cfg.RateLimit

	schemes := make([]string, 0, len(settings.Schemes))
	for _, s := range settings.Schemes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			schemes = append(schemes, s)
		}
	}
	if len(schemes) == 0 {
		schemes = []string{"https", "http"}
	}

	lg := logger.With("lookup", cfg.LookupName)
	return &BaseLookup{
		Client:  httpclient.New(httpCfg, lg),
		Schemes: schemes,
		Logger:  lg,
		HostFor: func(domainName string) string { return domainName },
	}
}

// Host retorna el host a contactar para el objetivo.
func (b *BaseLookup) Host(target domain.Target) string {
	return b.HostFor(target.Domain)
}

// FetchFirst pide path con cada esquema en orden y retorna la primera
// respuesta junto con su URL base (scheme://host).
func (b *BaseLookup) FetchFirst(ctx context.Context, method string, target domain.Target, path string) (*httpclient.Response, string, error) {
	return b.Client.FetchFirst(ctx, method, b.Host(target), path, b.Schemes)
}

// Get pide una URL absoluta.
func (b *BaseLookup) Get(ctx context.Context, url string) (*httpclient.Response, error) {
	return b.Client.Fetch(ctx, http.MethodGet, url)
}
