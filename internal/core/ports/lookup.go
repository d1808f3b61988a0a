// internal/core/ports/lookup.go
package ports

import (
	"context"
	"time"

	"dossier/internal/core/domain"
)

// Lookup es el port primario de cada categoría del reconocimiento.
// Cada implementación es independiente, idempotente y no comparte estado
// mutable con las demás.
type Lookup interface {
	// Category retorna la categoría que produce el lookup
	Category() domain.Category

	// Run consulta el objetivo y retorna el payload. Un error se registra
	// como fallo de la categoría y nunca aborta el resto del escaneo.
	Run(ctx context.Context, target domain.Target) (*domain.Payload, error)
}

// Closer es implementado opcionalmente por lookups que mantienen recursos.
type Closer interface {
	Close() error
}

// LookupSettings contiene la configuración compartida por todos los lookups.
// Es inmutable una vez construida.
type LookupSettings struct {
	// UserAgent cabecera User-Agent para peticiones HTTP
	UserAgent string

	// HTTPTimeout tiempo máximo por petición HTTP
	HTTPTimeout time.Duration

	// Schemes esquemas a probar en orden ("https", "http")
	Schemes []string

	// DNSServer servidor DNS host:port (vacío = resolv.conf)
	DNSServer string

	// TLSPort puerto para el handshake TLS
	TLSPort int

	// WhoisServer servidor WHOIS fijo (vacío = descubrimiento automático)
	WhoisServer string

	// RDAPBaseURL base del servicio RDAP de respaldo
	RDAPBaseURL string

	// GeoBaseURL base de la API de geolocalización
	GeoBaseURL string

	// AdminWordlist fichero que reemplaza la wordlist embebida (vacío = embebida)
	AdminWordlist string

	// ProbeRate peticiones por segundo al probar rutas admin (0 = sin límite)
	ProbeRate float64
}

// DefaultLookupSettings retorna una configuración por defecto.
func DefaultLookupSettings() LookupSettings {
	return LookupSettings{
		UserAgent:   "Mozilla/5.0 (compatible; dossier/1.0)",
		HTTPTimeout: 10 * time.Second,
		Schemes:     []string{"https", "http"},
		TLSPort:     443,
		RDAPBaseURL: "https://rdap.org",
		GeoBaseURL:  "https://ipinfo.io",
		ProbeRate:   0,
	}
}

// LookupMetadata contiene metadatos sobre un lookup registrado.
type LookupMetadata struct {
	Category    domain.Category
	Description string

	// Libraries librerías de terceros en las que se apoya el lookup
	Libraries []string
}
