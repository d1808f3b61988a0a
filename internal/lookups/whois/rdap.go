package whois

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/platform/errors"
)

// rdapResponse representa la respuesta de RDAP (simplificada)
type rdapResponse struct {
	LDHName string   `json:"ldhName"`
	Status  []string `json:"status"`

	Entities    []rdapEntity     `json:"entities"`
	Nameservers []rdapNameserver `json:"nameservers"`
	Events      []rdapEvent      `json:"events"`

	SecureDNS struct {
		DelegationSigned bool `json:"delegationSigned"`
	} `json:"secureDNS"`

	Port43 string `json:"port43"`
}

// rdapEntity representa una entidad (registrar, contacto)
type rdapEntity struct {
	Roles      []string      `json:"roles"`
	VCardArray []interface{} `json:"vcardArray"`
	Links      []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	Entities []rdapEntity `json:"entities"`
}

type rdapNameserver struct {
	LDHName string `json:"ldhName"`
}

// rdapEvent representa un evento (registration, last changed, expiration)
type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

// queryRDAP consulta <base>/domain/<name> y mapea la respuesta a los mismos
// campos que la vía WHOIS.
func (l *Lookup) queryRDAP(ctx context.Context, name string) (*domain.Payload, error) {
	if l.rdapBase == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no RDAP base URL configured")
	}

	url := fmt.Sprintf("%s/domain/%s", l.rdapBase, name)
	l.logger.Debug("querying RDAP", "domain", name, "url", url)

	resp, err := l.client.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "RDAP request failed")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotRegistered
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "RDAP returned status %d", resp.StatusCode)
	}

	var data rdapResponse
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "failed to parse RDAP response for %s: %v", name, err)
	}

	return payloadFromRDAP(name, &data), nil
}

func payloadFromRDAP(name string, data *rdapResponse) *domain.Payload {
	var created, updated, expires string
	for _, event := range data.Events {
		switch strings.ToLower(event.EventAction) {
		case "registration":
			created = event.EventDate
		case "last changed":
			updated = event.EventDate
		case "expiration":
			expires = event.EventDate
		}
	}

	var registrar, registrarURL, regOrg, regCountry string
	var emails []string
	walkEntities(data.Entities, func(entity rdapEntity) {
		switch {
		case hasRole(entity.Roles, "registrar"):
			if registrar == "" {
				registrar = extractVCardField(entity.VCardArray, "fn")
			}
			for _, link := range entity.Links {
				if registrarURL == "" && link.Href != "" {
					registrarURL = link.Href
				}
			}
		case hasRole(entity.Roles, "registrant"):
			if regOrg == "" {
				regOrg = extractVCardField(entity.VCardArray, "org")
			}
			if regCountry == "" {
				regCountry = extractVCardCountry(entity.VCardArray)
			}
		}
		emails = append(emails, extractVCardField(entity.VCardArray, "email"))
	})

	nameServers := make([]string, 0, len(data.Nameservers))
	for _, ns := range data.Nameservers {
		nameServers = append(nameServers, ns.LDHName)
	}

	domainName := strings.ToLower(data.LDHName)
	if domainName == "" {
		domainName = name
	}

	p := domain.NewPayload()
	p.Set(fieldDomain, domainName)
	p.SetDefault(fieldRegistrar, registrar, notAvailable)
	p.SetDefault(fieldRegistrarURL, registrarURL, notAvailable)
	p.SetDefault(fieldWhoisServer, data.Port43, notAvailable)
	p.SetDefault(fieldCreated, created, notAvailable)
	p.SetDefault(fieldUpdated, updated, notAvailable)
	p.SetDefault(fieldExpires, expires, notAvailable)
	p.SetList(fieldStatus, uniqueStrings(data.Status))
	p.SetList(fieldNameServers, normalizeNameServers(nameServers))
	p.Set(fieldDNSSEC, boolText(data.SecureDNS.DelegationSigned, "signed", "unsigned"))
	p.SetDefault(fieldRegOrg, regOrg, notAvailable)
	p.SetDefault(fieldRegCountry, regCountry, notAvailable)
	p.SetList(fieldEmails, uniqueStrings(emails))
	p.Set(fieldSource, sourceRDAP)
	return p
}

// walkEntities recorre las entidades y sus anidadas en profundidad.
func walkEntities(entities []rdapEntity, fn func(rdapEntity)) {
	for _, entity := range entities {
		fn(entity)
		if len(entity.Entities) > 0 {
			walkEntities(entity.Entities, fn)
		}
	}
}

// extractVCardField extracts a specific field from VCard array
func extractVCardField(vcardArray []interface{}, fieldName string) string {
	for _, field := range vcardFields(vcardArray, fieldName) {
		// Value is at index 3
		if value, ok := field[3].(string); ok {
			return value
		}
	}
	return ""
}

// extractVCardCountry lee el país de la dirección postal (adr).
func extractVCardCountry(vcardArray []interface{}) string {
	for _, field := range vcardFields(vcardArray, "adr") {
		// Address format: [pobox, ext, street, locality, region, code, country]
		addr, ok := field[3].([]interface{})
		if !ok || len(addr) < 7 {
			continue
		}
		if country, ok := addr[6].(string); ok && country != "" {
			return country
		}
	}
	return ""
}

// vcardFields retorna las propiedades con ese nombre.
// VCard format: ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "John Doe"], ...]]
func vcardFields(vcardArray []interface{}, fieldName string) [][]interface{} {
	if len(vcardArray) < 2 {
		return nil
	}

	vcard, ok := vcardArray[1].([]interface{})
	if !ok {
		return nil
	}

	var out [][]interface{}
	for _, item := range vcard {
		field, ok := item.([]interface{})
		if !ok || len(field) < 4 {
			continue
		}
		name, ok := field[0].(string)
		if !ok || !strings.EqualFold(name, fieldName) {
			continue
		}
		out = append(out, field)
	}
	return out
}

// hasRole checks if entity has a specific role
func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
