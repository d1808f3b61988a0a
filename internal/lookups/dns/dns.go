// Package dns implements the DNS records lookup over miekg/dns: A, AAAA,
// MX, NS, TXT and CNAME against one resolver, plus the SPF and DMARC
// policies derived from TXT data.
package dns

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	mdns "github.com/miekg/dns"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryDNS,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "A, AAAA, MX, NS, TXT and CNAME records with SPF/DMARC derivation",
			Libraries:   []string{"github.com/miekg/dns"},
		},
	)
}

const (
	lookupName     = "dns"
	resolvConf     = "/etc/resolv.conf"
	fallbackServer = "8.8.8.8:53"
	queryTimeout   = 5 * time.Second
)

// ErrNXDomain se retorna cuando el servidor afirma que el nombre no existe.
var ErrNXDomain = errors.New("domain does not exist (NXDOMAIN)")

// recordTypes en el orden en que aparecen en el informe.
var recordTypes = []uint16{
	mdns.TypeA,
	mdns.TypeAAAA,
	mdns.TypeMX,
	mdns.TypeNS,
	mdns.TypeTXT,
	mdns.TypeCNAME,
}

// Lookup implementa ports.Lookup para la categoría dns.
type Lookup struct {
	client    *mdns.Client
	tcpClient *mdns.Client
	server    string
	logger    logx.Logger
}

// New crea el lookup DNS. Sin servidor configurado usa el primero de
// /etc/resolv.conf y, si no hay, 8.8.8.8.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	server := settings.DNSServer
	if server == "" {
		server = systemResolver()
	} else if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &Lookup{
		client:    &mdns.Client{Net: "udp", Timeout: queryTimeout},
		tcpClient: &mdns.Client{Net: "tcp", Timeout: queryTimeout},
		server:    server,
		logger:    logger.With("lookup", lookupName),
	}
}

// systemResolver lee el primer nameserver de resolv.conf.
func systemResolver() string {
	conf, err := mdns.ClientConfigFromFile(resolvConf)
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServer
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryDNS
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	name := mdns.Fqdn(target.Domain)
	l.logger.Debug("querying DNS", "domain", target.Domain, "server", l.server)

	payload := domain.NewPayload()
	records := make(map[uint16][]string, len(recordTypes))

	var transportErrs []error
	for _, qtype := range recordTypes {
		resp, err := l.exchange(ctx, name, qtype)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn("DNS query failed",
				"type", mdns.TypeToString[qtype],
				"error", err.Error(),
			)
			transportErrs = append(transportErrs, fmt.Errorf("%s: %w", mdns.TypeToString[qtype], err))
			continue
		}

		if resp.Rcode == mdns.RcodeNameError && qtype == mdns.TypeA {
			return nil, ErrNXDomain
		}
		records[qtype] = answers(resp, qtype)
	}

	if len(transportErrs) == len(recordTypes) {
		return nil, errors.Wrapf(errors.Join(transportErrs...), "all DNS queries to %s failed", l.server)
	}

	for _, qtype := range recordTypes {
		payload.SetList(mdns.TypeToString[qtype], records[qtype])
	}

	payload.SetList("SPF", filterPrefix(records[mdns.TypeTXT], "v=spf1"))
	payload.SetList("DMARC", l.lookupDMARC(ctx, target.Domain))
	payload.Set("Resolver", l.server)

	l.logger.Debug("DNS query completed",
		"domain", target.Domain,
		"a", len(records[mdns.TypeA]),
		"failed_types", len(transportErrs),
	)

	return payload, nil
}

// exchange envía una consulta y repite por TCP si la respuesta viene truncada.
func (l *Lookup) exchange(ctx context.Context, name string, qtype uint16) (*mdns.Msg, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(name, qtype)
	msg.RecursionDesired = true

	resp, _, err := l.client.ExchangeContext(ctx, msg, l.server)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		resp, _, err = l.tcpClient.ExchangeContext(ctx, msg, l.server)
		if err != nil {
			return nil, err
		}
	}
	if resp.Rcode != mdns.RcodeSuccess && resp.Rcode != mdns.RcodeNameError {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "rcode %s", mdns.RcodeToString[resp.Rcode])
	}
	return resp, nil
}

// lookupDMARC consulta el TXT de _dmarc.<dominio>. Un fallo aquí no invalida
// el resto de registros: se informa como lista vacía.
func (l *Lookup) lookupDMARC(ctx context.Context, domainName string) []string {
	resp, err := l.exchange(ctx, mdns.Fqdn("_dmarc."+domainName), mdns.TypeTXT)
	if err != nil {
		l.logger.Debug("DMARC lookup failed", "error", err.Error())
		return []string{}
	}
	return filterPrefix(answers(resp, mdns.TypeTXT), "v=dmarc1")
}

// answers extrae los valores del tipo pedido, ignorando CNAMEs intermedios
// salvo que se consultara CNAME.
func answers(resp *mdns.Msg, qtype uint16) []string {
	type mx struct {
		pref uint16
		host string
	}

	out := []string{}
	var mxs []mx

	for _, rr := range resp.Answer {
		switch record := rr.(type) {
		case *mdns.A:
			if qtype == mdns.TypeA {
				out = append(out, record.A.String())
			}
		case *mdns.AAAA:
			if qtype == mdns.TypeAAAA {
				out = append(out, record.AAAA.String())
			}
		case *mdns.MX:
			if qtype == mdns.TypeMX {
				mxs = append(mxs, mx{pref: record.Preference, host: trimDot(record.Mx)})
			}
		case *mdns.NS:
			if qtype == mdns.TypeNS {
				out = append(out, trimDot(record.Ns))
			}
		case *mdns.TXT:
			if qtype == mdns.TypeTXT {
				out = append(out, strings.Join(record.Txt, ""))
			}
		case *mdns.CNAME:
			if qtype == mdns.TypeCNAME {
				out = append(out, trimDot(record.Target))
			}
		}
	}

	if qtype == mdns.TypeMX {
		sort.Slice(mxs, func(i, j int) bool {
			if mxs[i].pref != mxs[j].pref {
				return mxs[i].pref < mxs[j].pref
			}
			return mxs[i].host < mxs[j].host
		})
		for _, m := range mxs {
			out = append(out, m.host+" (priority "+strconv.Itoa(int(m.pref))+")")
		}
		return out
	}

	sort.Strings(out)
	return out
}

func filterPrefix(values []string, prefix string) []string {
	out := []string{}
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}
	return out
}

func trimDot(s string) string {
	return strings.TrimSuffix(s, ".")
}
