// internal/platform/config/help.go
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// LongHelp es la descripción extendida del comando raíz.
const LongHelp = `dossier - Automated Domain Reconnaissance

dossier runs a fixed sequence of lookups against one domain and writes a
single PDF report:

  WHOIS, DNS records, IP geolocation, SSL certificate, HTTP headers,
  robots.txt and sitemap.xml, tech stack, HTML metadata, admin panel finder

A lookup that fails never stops the scan: its section is reported as
"Not available" together with the reason.`

// ScanExamples muestra usos típicos del comando scan.
const ScanExamples = `  Basic scan, report in ./reports:
    dossier scan example.com

  URL input, explicit report path and JSON export:
    dossier scan https://www.example.com/shop -o out/example.pdf --json

  Slow, polite admin path probing with a custom wordlist:
    dossier scan example.com --wordlist paths.txt --probe-rate 2

  Plain log lines for CI, JSON formatted:
    dossier scan example.com --ui raw --log-format json --no-table

  HTTP only, custom DNS resolver and longer timeouts:
    dossier scan example.com --schemes http --dns-server 1.1.1.1 -T 60 --http-timeout 20`

// envVars lista las variables de entorno reconocidas en orden de ayuda.
var envVars = [][2]string{
	{"DOSSIER_CONFIG", "YAML configuration file"},
	{"DOSSIER_TIMEOUT", "Per-lookup timeout in seconds"},
	{"DOSSIER_OUT", "PDF report path"},
	{"DOSSIER_DIR", "Report directory"},
	{"DOSSIER_JSON", "Write the JSON export (true/false)"},
	{"DOSSIER_NO_TABLE", "Disable the summary table (true/false)"},
	{"DOSSIER_QUIET", "Quiet mode (true/false)"},
	{"DOSSIER_UI", "Presentation mode: pretty, raw, quiet"},
	{"DOSSIER_USER_AGENT", "HTTP User-Agent"},
	{"DOSSIER_HTTP_TIMEOUT", "HTTP request timeout in seconds"},
	{"DOSSIER_SCHEMES", "Comma separated schemes, e.g. https,http"},
	{"DOSSIER_DNS_SERVER", "DNS server host:port"},
	{"DOSSIER_TLS_PORT", "TLS handshake port"},
	{"DOSSIER_WHOIS_SERVER", "Fixed WHOIS server"},
	{"DOSSIER_RDAP_URL", "RDAP base URL"},
	{"DOSSIER_GEO_URL", "Geolocation API base URL"},
	{"DOSSIER_WORDLIST", "Admin paths wordlist file"},
	{"DOSSIER_PROBE_RATE", "Admin path requests per second"},
	{"DOSSIER_LOG_LEVEL", "debug, info, warn, error"},
	{"DOSSIER_LOG_FORMAT", "text or json (raw UI)"},
}

// EnvHelp retorna la sección de ayuda de variables de entorno.
func EnvHelp() string {
	var b strings.Builder
	b.WriteString("Environment variables (a YAML file < environment < explicit flags):\n")
	for _, kv := range envVars {
		fmt.Fprintf(&b, "  %-22s %s\n", kv[0], kv[1])
	}
	return b.String()
}

// VersionString retorna la información de versión formateada.
func VersionString(version, commit, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dossier %s\n", version)
	fmt.Fprintf(&b, "  Commit:  %s\n", commit)
	fmt.Fprintf(&b, "  Built:   %s\n", date)
	fmt.Fprintf(&b, "  Go:      %s\n", runtime.Version())
	return b.String()
}
