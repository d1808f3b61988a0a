package whois

import (
	"regexp"
	"sort"
	"strings"

	whoisparser "github.com/likexian/whois-parser"

	"dossier/internal/core/domain"
	"dossier/internal/platform/errors"
)

// Nombres de campo compartidos por WHOIS y RDAP
const (
	fieldDomain       = "Domain"
	fieldRegistrar    = "Registrar"
	fieldRegistrarURL = "Registrar URL"
	fieldWhoisServer  = "WHOIS Server"
	fieldCreated      = "Creation Date"
	fieldUpdated      = "Updated Date"
	fieldExpires      = "Expiration Date"
	fieldStatus       = "Status"
	fieldNameServers  = "Name Servers"
	fieldDNSSEC       = "DNSSEC"
	fieldRegOrg       = "Registrant Organization"
	fieldRegCountry   = "Registrant Country"
	fieldEmails       = "Emails"
	fieldSource       = "Source"
)

const notAvailable = "N/A"

// notFoundMarkers cubre las respuestas de "dominio libre" más comunes.
var notFoundMarkers = []string{
	"no match for",
	"not found",
	"no data found",
	"no entries found",
	"status: free",
	"status: available",
	"domain not found",
}

// parseWhois convierte la respuesta de texto en payload. El parser es la vía
// principal; si rechaza el formato se usa la extracción por regex.
func parseWhois(name, raw string) (*domain.Payload, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	info, err := whoisparser.Parse(text)
	switch {
	case err == nil:
		return payloadFromInfo(name, info), nil
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return nil, ErrNotRegistered
	}

	if isNotFound(text) {
		return nil, ErrNotRegistered
	}

	payload := payloadFromText(name, text)
	if payload.Value(fieldRegistrar) == notAvailable && len(payload.Values(fieldNameServers)) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "unrecognized WHOIS format: %v", err)
	}
	return payload, nil
}

func payloadFromInfo(name string, info whoisparser.WhoisInfo) *domain.Payload {
	p := domain.NewPayload()

	var (
		domainName, whoisServer     string
		created, updated, expires   string
		status, nameServers, emails []string
		dnssec                      bool
		registrar, registrarURL     string
		regOrg, regCountry          string
	)

	if d := info.Domain; d != nil {
		domainName = d.Domain
		whoisServer = d.WhoisServer
		created = d.CreatedDate
		updated = d.UpdatedDate
		expires = d.ExpirationDate
		status = d.Status
		nameServers = d.NameServers
		dnssec = d.DNSSec
	}
	if r := info.Registrar; r != nil {
		registrar = r.Name
		registrarURL = r.ReferralURL
		emails = append(emails, r.Email)
	}
	if r := info.Registrant; r != nil {
		regOrg = r.Organization
		regCountry = r.Country
		emails = append(emails, r.Email)
	}
	for _, c := range []*whoisparser.Contact{info.Administrative, info.Technical, info.Billing} {
		if c != nil {
			emails = append(emails, c.Email)
		}
	}

	if domainName == "" {
		domainName = name
	}

	p.Set(fieldDomain, strings.ToLower(domainName))
	p.SetDefault(fieldRegistrar, registrar, notAvailable)
	p.SetDefault(fieldRegistrarURL, registrarURL, notAvailable)
	p.SetDefault(fieldWhoisServer, whoisServer, notAvailable)
	p.SetDefault(fieldCreated, created, notAvailable)
	p.SetDefault(fieldUpdated, updated, notAvailable)
	p.SetDefault(fieldExpires, expires, notAvailable)
	p.SetList(fieldStatus, uniqueStrings(status))
	p.SetList(fieldNameServers, normalizeNameServers(nameServers))
	p.Set(fieldDNSSEC, boolText(dnssec, "signed", "unsigned"))
	p.SetDefault(fieldRegOrg, regOrg, notAvailable)
	p.SetDefault(fieldRegCountry, regCountry, notAvailable)
	p.SetList(fieldEmails, uniqueStrings(emails))
	p.Set(fieldSource, sourceWhois)
	return p
}

// Patrones de la extracción de respaldo (formatos sin soporte en el parser)
var (
	reRegistrar    = regexp.MustCompile(`(?im)^\s*(?:registrar|registrar name|sponsoring registrar)\s*:\s*(.+)$`)
	reRegistrarURL = regexp.MustCompile(`(?im)^\s*(?:registrar url|referral url)\s*:\s*(.+)$`)
	reWhoisServer  = regexp.MustCompile(`(?im)^\s*(?:registrar whois server|whois server|whois)\s*:\s*(.+)$`)
	reCreated      = regexp.MustCompile(`(?im)^\s*(?:creation date|created|created on|registered on|registration time)\s*:\s*(.+)$`)
	reUpdated      = regexp.MustCompile(`(?im)^\s*(?:updated date|last updated|last modified|changed)\s*:\s*(.+)$`)
	reExpires      = regexp.MustCompile(`(?im)^\s*(?:registry expiry date|expiration date|expiry date|expires|expires on|paid-till)\s*:\s*(.+)$`)
	reStatus       = regexp.MustCompile(`(?im)^\s*(?:domain status|status)\s*:\s*(\S+)`)
	reNameServer   = regexp.MustCompile(`(?im)^\s*(?:name server|nameserver|nserver|ns)\s*:\s*(\S+)`)
	reDNSSEC       = regexp.MustCompile(`(?im)^\s*dnssec\s*:\s*(.+)$`)
	reRegOrg       = regexp.MustCompile(`(?im)^\s*(?:registrant organization|registrant organisation|org)\s*:\s*(.+)$`)
	reRegCountry   = regexp.MustCompile(`(?im)^\s*(?:registrant country|country)\s*:\s*(.+)$`)
	reEmail        = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
)

func payloadFromText(name, text string) *domain.Payload {
	p := domain.NewPayload()

	dnssec := findFirst(reDNSSEC, text)
	switch {
	case dnssec == "":
	case strings.HasPrefix(strings.ToLower(dnssec), "signed"), strings.EqualFold(dnssec, "yes"):
		dnssec = "signed"
	default:
		dnssec = "unsigned"
	}

	p.Set(fieldDomain, name)
	p.SetDefault(fieldRegistrar, findFirst(reRegistrar, text), notAvailable)
	p.SetDefault(fieldRegistrarURL, findFirst(reRegistrarURL, text), notAvailable)
	p.SetDefault(fieldWhoisServer, findFirst(reWhoisServer, text), notAvailable)
	p.SetDefault(fieldCreated, findFirst(reCreated, text), notAvailable)
	p.SetDefault(fieldUpdated, findFirst(reUpdated, text), notAvailable)
	p.SetDefault(fieldExpires, findFirst(reExpires, text), notAvailable)
	p.SetList(fieldStatus, uniqueStrings(findAll(reStatus, text)))
	p.SetList(fieldNameServers, normalizeNameServers(findAll(reNameServer, text)))
	p.SetDefault(fieldDNSSEC, dnssec, notAvailable)
	p.SetDefault(fieldRegOrg, findFirst(reRegOrg, text), notAvailable)
	p.SetDefault(fieldRegCountry, findFirst(reRegCountry, text), notAvailable)
	p.SetList(fieldEmails, uniqueStrings(reEmail.FindAllString(text, -1)))
	p.Set(fieldSource, sourceWhois)
	return p
}

func isNotFound(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ---------- helpers ----------

func findFirst(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 2 {
			if v := strings.TrimSpace(m[1]); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// uniqueStrings conserva el orden de aparición y descarta vacíos.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := []string{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// normalizeNameServers pasa a minúsculas, quita el punto final y ordena.
func normalizeNameServers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ns := range in {
		out = append(out, strings.TrimSuffix(strings.ToLower(strings.TrimSpace(ns)), "."))
	}
	out = uniqueStrings(out)
	sort.Strings(out)
	return out
}

func boolText(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
