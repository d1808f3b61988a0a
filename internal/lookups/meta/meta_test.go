package meta

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/testutil"
)

func newTestLookup(host string) *Lookup {
	settings := ports.DefaultLookupSettings()
	settings.Schemes = []string{"http"}
	l := New(settings, testutil.SilentLogger())
	l.HostFor = func(string) string { return host }
	return l
}

func fieldNames(p *domain.Payload) []string {
	names := []string{}
	for _, f := range p.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func TestLookup_Run(t *testing.T) {
	site := testutil.NewStaticSite(t, map[string]testutil.Route{
		"/": {Body: testutil.FixtureHTMLPage},
	})

	l := newTestLookup(site.Host())
	payload, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.RequireNoError(t, err, "run should succeed")

	testutil.AssertEqual(t, fieldNames(payload), []string{"Title", "description", "generator", "og:title"}, "document order")
	testutil.AssertEqual(t, payload.Value("Title"), "Example Shop", "title")
	testutil.AssertEqual(t, payload.Value("description"), "An example storefront", "first description wins")
	testutil.AssertEqual(t, payload.Value("generator"), "WordPress 6.4.2", "generator")
	testutil.AssertEqual(t, payload.Value("og:title"), "Example Shop Home", "open graph property")
}

func TestExtract_NoMeta(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head><meta charset=\"utf-8\"></head><body></body></html>"))
	testutil.RequireNoError(t, err, "parse")

	payload := extract(doc)
	testutil.AssertEqual(t, payload.Value("Info"), "No meta tags found.", "info line")
	_, hasTitle := payload.Get("Title")
	testutil.AssertFalse(t, hasTitle, "no title field without <title>")
}

func TestExtract_HTTPEquivAndWhitespace(t *testing.T) {
	html := `<html><head>
<title>
   Spaced
   Title </title>
<meta http-equiv="refresh" content="30">
<meta name="keywords" content="  a,   b  ">
<meta name="empty" content="">
</head></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	testutil.RequireNoError(t, err, "parse")

	payload := extract(doc)
	testutil.AssertEqual(t, payload.Value("Title"), "Spaced Title", "title whitespace collapsed")
	testutil.AssertEqual(t, payload.Value("refresh"), "30", "http-equiv used as name")
	testutil.AssertEqual(t, payload.Value("keywords"), "a, b", "content whitespace collapsed")
	_, hasEmpty := payload.Get("empty")
	testutil.AssertFalse(t, hasEmpty, "empty content skipped")
}

func TestExtract_ReservedNames(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		want  []string
		value map[string]string
	}{
		{
			name:  "title tag and meta title",
			html:  `<title>Page</title><meta name="Title" content="Meta Page">`,
			want:  []string{"Title", "meta:Title"},
			value: map[string]string{"Title": "Page", "meta:Title": "Meta Page"},
		},
		{
			name:  "meta title without title tag",
			html:  `<meta name="title" content="Only Meta">`,
			want:  []string{"meta:title"},
			value: map[string]string{"meta:title": "Only Meta"},
		},
		{
			name:  "meta info is a real tag",
			html:  `<meta name="Info" content="custom">`,
			want:  []string{"meta:Info"},
			value: map[string]string{"meta:Info": "custom"},
		},
		{
			name:  "first reserved duplicate wins",
			html:  `<meta name="Title" content="one"><meta name="Title" content="two">`,
			want:  []string{"meta:Title"},
			value: map[string]string{"meta:Title": "one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head>" + tt.html + "</head></html>"))
			testutil.RequireNoError(t, err, "parse")

			payload := extract(doc)
			testutil.AssertEqual(t, fieldNames(payload), tt.want, "fields")
			for k, v := range tt.value {
				testutil.AssertEqual(t, payload.Value(k), v, k)
			}
		})
	}
}

func TestLookup_Run_Unreachable(t *testing.T) {
	l := newTestLookup("127.0.0.1:1")

	_, err := l.Run(context.Background(), domain.Target{Domain: "example.com"})
	testutil.AssertError(t, err, "unreachable server is a failure")
}
