// Package tlscert implements the SSL certificate lookup. The handshake
// accepts any certificate so that metadata is captured even for broken
// chains; trust is evaluated afterwards against the system roots.
package tlscert

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategorySSL,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "TLS handshake and leaf certificate inspection with chain verification",
		},
	)
}

const (
	lookupName     = "ssl"
	defaultTLSPort = 443
	timeLayout     = "2006-01-02 15:04:05 MST"
)

// Lookup implementa ports.Lookup para la categoría ssl.
type Lookup struct {
	port    int
	timeout time.Duration
	logger  logx.Logger

	// roots nil = raíces del sistema
	roots *x509.CertPool
	now   func() time.Time
	// address calcula host:port a marcar; el SNI siempre es el dominio
	address func(domainName string) string
}

// New crea el lookup TLS.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	port := settings.TLSPort
	if port <= 0 || port > 65535 {
		port = defaultTLSPort
	}
	timeout := settings.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	l := &Lookup{
		port:    port,
		timeout: timeout,
		logger:  logger.With("lookup", lookupName),
		now:     time.Now,
	}
	l.address = func(domainName string) string {
		return net.JoinHostPort(domainName, strconv.Itoa(l.port))
	}
	return l
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategorySSL
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	addr := l.address(target.Domain)
	l.logger.Debug("starting TLS handshake", "addr", addr, "sni", target.Domain)

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: l.timeout},
		Config: &tls.Config{
			ServerName: target.Domain,
			// La verificación se hace después para no perder los datos del certificado
			InsecureSkipVerify: true, //nolint:gosec
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "TLS handshake with %s failed", addr)
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "server presented no certificate")
	}

	leaf := state.PeerCertificates[0]
	verifyErr := l.verify(target.Domain, state.PeerCertificates)

	payload := domain.NewPayload()
	payload.
		Set("Subject", nameOrDash(leaf.Subject.String())).
		Set("Issuer", nameOrDash(leaf.Issuer.String())).
		Set("Serial Number", formatSerial(leaf.SerialNumber.Bytes())).
		Set("Valid From", leaf.NotBefore.UTC().Format(timeLayout)).
		Set("Valid To", leaf.NotAfter.UTC().Format(timeLayout)).
		SetList("Subject Alt Names", subjectAltNames(leaf)).
		Set("Protocol", tls.VersionName(state.Version)).
		Set("Cipher Suite", tls.CipherSuiteName(state.CipherSuite)).
		Set("Expired", yesNo(l.now().After(leaf.NotAfter))).
		Set("Self-Signed", yesNo(isSelfSigned(leaf))).
		Set("Trusted", yesNo(verifyErr == nil))
	if verifyErr != nil {
		payload.Set("Verification Error", verifyErr.Error())
	}

	l.logger.Debug("TLS handshake completed",
		"addr", addr,
		"protocol", tls.VersionName(state.Version),
		"trusted", verifyErr == nil,
	)

	return payload, nil
}

// verify valida la cadena presentada para el nombre de dominio.
func (l *Lookup) verify(domainName string, chain []*x509.Certificate) error {
	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}

	_, err := chain[0].Verify(x509.VerifyOptions{
		DNSName:       domainName,
		Roots:         l.roots,
		Intermediates: intermediates,
		CurrentTime:   l.now(),
	})
	return err
}

func subjectAltNames(cert *x509.Certificate) []string {
	out := make([]string, 0, len(cert.DNSNames)+len(cert.IPAddresses))
	out = append(out, cert.DNSNames...)
	for _, ip := range cert.IPAddresses {
		out = append(out, ip.String())
	}
	return out
}

func isSelfSigned(cert *x509.Certificate) bool {
	if !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// formatSerial representa el número de serie como hex separado por ':'.
func formatSerial(b []byte) string {
	if len(b) == 0 {
		return "00"
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, ":")
}

func nameOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
