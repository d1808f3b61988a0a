package tlscert

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/testutil"
)

// newTLSTarget arranca un servidor TLS de prueba y un lookup que marca su
// dirección. El certificado de httptest cubre example.com y 127.0.0.1.
func newTLSTarget(t *testing.T) (*httptest.Server, *Lookup) {
	t.Helper()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	settings := ports.DefaultLookupSettings()
	settings.HTTPTimeout = 2 * time.Second

	l := New(settings, testutil.SilentLogger())
	l.address = func(string) string { return server.Listener.Addr().String() }
	return server, l
}

func TestLookup_Run_Trusted(t *testing.T) {
	server, l := newTLSTarget(t)

	roots := x509.NewCertPool()
	roots.AddCert(server.Certificate())
	l.roots = roots

	payload, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.RequireNoError(t, err, "handshake should succeed")

	testutil.AssertContains(t, payload.Value("Subject"), "Acme Co", "subject from test cert")
	testutil.AssertContains(t, payload.Value("Issuer"), "Acme Co", "issuer from test cert")
	testutil.AssertContains(t, payload.Values("Subject Alt Names"), "example.com", "SAN list has example.com")
	testutil.AssertContains(t, payload.Values("Subject Alt Names"), "127.0.0.1", "SAN list has IP")
	testutil.AssertEqual(t, payload.Value("Trusted"), "yes", "trusted with test root")
	testutil.AssertEqual(t, payload.Value("Self-Signed"), "yes", "test cert is self-signed")
	testutil.AssertEqual(t, payload.Value("Expired"), "no", "not expired")
	testutil.AssertContains(t, payload.Value("Protocol"), "TLS 1.", "protocol name")
	testutil.AssertTrue(t, payload.Value("Cipher Suite") != "", "cipher suite set")
	testutil.AssertTrue(t, payload.Value("Serial Number") != "", "serial set")

	_, hasVerifyErr := payload.Get("Verification Error")
	testutil.AssertFalse(t, hasVerifyErr, "no verification error when trusted")
}

func TestLookup_Run_Untrusted(t *testing.T) {
	_, l := newTLSTarget(t)
	l.roots = x509.NewCertPool()

	payload, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.RequireNoError(t, err, "untrusted chain still yields metadata")

	testutil.AssertEqual(t, payload.Value("Trusted"), "no", "not trusted")
	testutil.AssertTrue(t, payload.Value("Verification Error") != "", "verification error recorded")
	testutil.AssertContains(t, payload.Value("Subject"), "Acme Co", "metadata captured")
}

func TestLookup_Run_WrongName(t *testing.T) {
	server, l := newTLSTarget(t)

	roots := x509.NewCertPool()
	roots.AddCert(server.Certificate())
	l.roots = roots

	payload, err := l.Run(context.Background(), domain.Target{Domain: "other.test"})
	testutil.RequireNoError(t, err, "handshake succeeds regardless of name")
	testutil.AssertEqual(t, payload.Value("Trusted"), "no", "name mismatch is untrusted")
}

func TestLookup_Run_Expired(t *testing.T) {
	_, l := newTLSTarget(t)
	l.now = func() time.Time { return time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC) }

	payload, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.RequireNoError(t, err, "handshake should succeed")
	testutil.AssertEqual(t, payload.Value("Expired"), "yes", "expired relative to clock")
}

func TestLookup_Run_HandshakeFailure(t *testing.T) {
	// Servidor HTTP plano: el handshake TLS falla
	site := testutil.NewStaticSite(t, nil)

	l := New(ports.DefaultLookupSettings(), testutil.SilentLogger())
	l.address = func(string) string { return site.Host() }

	_, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.AssertError(t, err, "plain HTTP server fails the handshake")
}

func TestLookup_Run_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.RequireNoError(t, err, "listen")
	addr := ln.Addr().String()
	_ = ln.Close()

	l := New(ports.DefaultLookupSettings(), testutil.SilentLogger())
	l.address = func(string) string { return addr }

	_, err = l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.AssertError(t, err, "closed port fails")
}

func TestNew_Port(t *testing.T) {
	l := New(ports.LookupSettings{TLSPort: 8443}, testutil.SilentLogger())
	testutil.AssertEqual(t, l.address("example.com"), "example.com:8443", "configured port")

	l = New(ports.LookupSettings{}, testutil.SilentLogger())
	testutil.AssertEqual(t, l.address("example.com"), "example.com:443", "default port")
}

func TestFormatSerial(t *testing.T) {
	testutil.AssertEqual(t, formatSerial([]byte{0x0a, 0xff}), "0A:FF", "hex pairs")
	testutil.AssertEqual(t, formatSerial(nil), "00", "zero serial")
}
