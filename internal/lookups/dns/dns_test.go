package dns

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	mdns "github.com/miekg/dns"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/testutil"
)

// zone es el contenido del servidor de prueba: fqdn -> registros.
type zone map[string][]mdns.RR

func mustRR(t *testing.T, s string) mdns.RR {
	t.Helper()
	rr, err := mdns.NewRR(s)
	testutil.RequireNoError(t, err, "parse RR "+s)
	return rr
}

// startDNSServer arranca un servidor UDP en 127.0.0.1 que responde desde z.
// Los nombres ausentes reciben NXDOMAIN; los presentes sin el tipo pedido, NODATA.
func startDNSServer(t *testing.T, z zone) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	testutil.RequireNoError(t, err, "listen udp")

	handler := mdns.HandlerFunc(func(w mdns.ResponseWriter, r *mdns.Msg) {
		q := r.Question[0]
		msg := new(mdns.Msg)
		msg.SetReply(r)

		records, ok := z[strings.ToLower(q.Name)]
		if !ok {
			msg.SetRcode(r, mdns.RcodeNameError)
		}
		for _, rr := range records {
			if rr.Header().Rrtype == q.Qtype {
				msg.Answer = append(msg.Answer, mdns.Copy(rr))
			}
		}
		_ = w.WriteMsg(msg)
	})

	started := make(chan struct{})
	server := &mdns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = server.ActivateAndServe() }()
	<-started

	t.Cleanup(func() { _ = server.Shutdown() })
	return pc.LocalAddr().String()
}

func newTestLookup(server string) *Lookup {
	settings := ports.DefaultLookupSettings()
	settings.DNSServer = server
	return New(settings, testutil.SilentLogger())
}

func TestLookup_Run(t *testing.T) {
	addr := startDNSServer(t, zone{
		"example.com.": {
			mustRR(t, "example.com. 300 IN A 93.184.215.14"),
			mustRR(t, "example.com. 300 IN A 93.184.215.13"),
			mustRR(t, "example.com. 300 IN AAAA 2606:2800:21f:cb07:6820:80da:af6b:8b2c"),
			mustRR(t, "example.com. 300 IN MX 20 mx2.example.com."),
			mustRR(t, "example.com. 300 IN MX 10 mx1.example.com."),
			mustRR(t, "example.com. 300 IN NS b.iana-servers.net."),
			mustRR(t, "example.com. 300 IN NS a.iana-servers.net."),
			mustRR(t, `example.com. 300 IN TXT "v=spf1 -all"`),
			mustRR(t, `example.com. 300 IN TXT "google-site-verification=abc"`),
		},
		"_dmarc.example.com.": {
			mustRR(t, `_dmarc.example.com. 300 IN TXT "v=DMARC1; p=reject"`),
		},
	})

	l := newTestLookup(addr)
	payload, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.RequireNoError(t, err, "run should succeed")

	testutil.AssertEqual(t, payload.Values("A"), []string{"93.184.215.13", "93.184.215.14"}, "sorted A records")
	testutil.AssertLen(t, payload.Values("AAAA"), 1, "one AAAA record")
	testutil.AssertEqual(t, payload.Values("MX"), []string{
		"mx1.example.com (priority 10)",
		"mx2.example.com (priority 20)",
	}, "MX ordered by priority")
	testutil.AssertEqual(t, payload.Values("NS"), []string{"a.iana-servers.net", "b.iana-servers.net"}, "NS without trailing dot")
	testutil.AssertLen(t, payload.Values("TXT"), 2, "both TXT records")
	testutil.AssertEqual(t, payload.Values("SPF"), []string{"v=spf1 -all"}, "SPF derived from TXT")
	testutil.AssertEqual(t, payload.Values("DMARC"), []string{"v=DMARC1; p=reject"}, "DMARC from _dmarc")
	testutil.AssertEqual(t, payload.Value("Resolver"), addr, "resolver recorded")

	field, ok := payload.Get("CNAME")
	testutil.AssertTrue(t, ok && field.IsList, "CNAME present as list")
	testutil.AssertLen(t, field.Values, 0, "empty answer is an empty list")

	// Orden del informe
	names := []string{}
	for _, f := range payload.Fields() {
		names = append(names, f.Name)
	}
	testutil.AssertEqual(t, strings.Join(names, ","), "A,AAAA,MX,NS,TXT,CNAME,SPF,DMARC,Resolver", "field order")
}

func TestLookup_Run_NXDomain(t *testing.T) {
	addr := startDNSServer(t, zone{})

	l := newTestLookup(addr)
	payload, err := l.Run(context.Background(), domain.Target{Domain: "nope.example"})

	testutil.AssertTrue(t, payload == nil, "no payload for NXDOMAIN")
	testutil.AssertTrue(t, errors.Is(err, ErrNXDomain), "NXDOMAIN error")
	testutil.AssertEqual(t, err.Error(), "domain does not exist (NXDOMAIN)", "failure text")
}

func TestLookup_Run_ServerDown(t *testing.T) {
	// Puerto UDP sin servidor: las consultas agotan el timeout o son rechazadas
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	testutil.RequireNoError(t, err, "listen udp")
	addr := pc.LocalAddr().String()
	_ = pc.Close()

	l := newTestLookup(addr)
	l.client.Timeout = 200 * time.Millisecond
	l.tcpClient.Timeout = 200 * time.Millisecond

	_, err = l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.AssertError(t, err, "all transport failures is a failure")
	testutil.AssertContains(t, err.Error(), "all DNS queries", "error message")
}

func TestLookup_Run_Canceled(t *testing.T) {
	addr := startDNSServer(t, zone{})
	l := newTestLookup(addr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Run(ctx, domain.Target{Domain: "example.com"})
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "cancellation propagated")
}

func TestNew_ServerPort(t *testing.T) {
	l := New(ports.LookupSettings{DNSServer: "1.1.1.1"}, testutil.SilentLogger())
	testutil.AssertEqual(t, l.server, "1.1.1.1:53", "default port appended")

	l = New(ports.LookupSettings{DNSServer: "10.0.0.2:5353"}, testutil.SilentLogger())
	testutil.AssertEqual(t, l.server, "10.0.0.2:5353", "explicit port kept")

	l = New(ports.LookupSettings{}, testutil.SilentLogger())
	testutil.AssertTrue(t, l.server != "", "system resolver or fallback")
}

func TestFilterPrefix(t *testing.T) {
	got := filterPrefix([]string{"V=SPF1 include:_spf.example.com ~all", "other"}, "v=spf1")
	testutil.AssertLen(t, got, 1, "case-insensitive prefix")
	testutil.AssertLen(t, filterPrefix(nil, "v=spf1"), 0, "nil input")
}
