// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Permite etiquetas LDH y punycode (xn--), máximo 63 caracteres por etiqueta.
// Exige al menos dos etiquetas: un TLD suelto o "localhost" no son objetivos.
var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// Domain validators

// IsDomain verifica si un string es un dominio válido.
// Las direcciones IP no cuentan como dominio.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	return net.ParseIP(domain) == nil
}

// NormalizeDomain normaliza un dominio a su forma canónica: minúsculas,
// sin espacios y sin el punto final. No elimina "www." porque el host
// exacto importa para las peticiones HTTP y TLS.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimSuffix(domain, ".")
}

// ToASCII convierte un nombre internacionalizado a su forma punycode
// ("münchen.de" -> "xn--mnchen-3ya.de"). Los nombres ASCII no cambian.
// Si la conversión falla se retorna el nombre tal cual y la validación
// posterior lo rechaza.
func ToASCII(host string) string {
	for i := 0; i < len(host); i++ {
		if host[i] >= 0x80 {
			ascii, err := idna.Lookup.ToASCII(host)
			if err != nil {
				return host
			}
			return ascii
		}
	}
	return host
}

// HostFromInput extrae el host de lo que el usuario escribió, sea un dominio
// suelto o una URL completa. Sin esquema se asume http:// antes de parsear,
// así "example.com/path" y "https://example.com:8443/x" dan "example.com".
// Los nombres internacionalizados se retornan en punycode.
func HostFromInput(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		// Fallback manual: cortar en el primer separador conocido
		host := strings.TrimPrefix(strings.TrimPrefix(input, "https://"), "http://")
		if idx := strings.IndexAny(host, "/?#"); idx != -1 {
			host = host[:idx]
		}
		if h, _, splitErr := net.SplitHostPort(host); splitErr == nil {
			host = h
		}
		return ToASCII(NormalizeDomain(host))
	}

	return ToASCII(NormalizeDomain(parsed.Hostname()))
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(portStr string) bool {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port >= 1 && port <= 65535
}

// URL validators

// IsURL verifica si un string es una URL absoluta con scheme y host.
func IsURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return parsed.Scheme != "" && parsed.Host != ""
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
