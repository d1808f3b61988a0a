// internal/adapters/output/fixtures_test.go
package output

import (
	"time"

	"dossier/internal/core/domain"
)

var (
	fixtureStart  = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	fixtureFinish = fixtureStart.Add(12 * time.Second)
)

// sampleRecord construye un registro con éxitos, listas vacías, texto
// multilínea, caracteres no ASCII y fallos.
func sampleRecord() *domain.ReconRecord {
	target := domain.Target{Input: "https://www.example.com/shop", Domain: "www.example.com"}

	results := []domain.LookupResult{
		domain.Succeeded(domain.CategoryWhois, domain.NewPayload().
			Set("Domain", "example.com").
			Set("Registrar", "RESERVED-Internet Assigned Numbers Authority").
			SetList("Name Servers", []string{"a.iana-servers.net", "b.iana-servers.net"}), 800*time.Millisecond),
		domain.Succeeded(domain.CategoryDNS, domain.NewPayload().
			SetList("A", []string{"93.184.216.34"}).
			SetList("MX", []string{}).
			Set("Resolver", "127.0.0.1:53"), 120*time.Millisecond),
		domain.Succeeded(domain.CategoryGeo, domain.NewPayload().
			Set("City", "Zürich").
			Set("Country", "CH"), 300*time.Millisecond),
		domain.Failed(domain.CategorySSL, "connection refused", 5*time.Millisecond),
		domain.Failed(domain.CategoryHeaders, "could not connect to the server", 10*time.Millisecond),
		domain.Succeeded(domain.CategoryRobots, domain.NewPayload().
			Set("robots.txt", "User-agent: *\r\nDisallow: /admin\n\tAllow: /").
			Set("sitemap.xml", "Not found (Status: 404)"), 50*time.Millisecond),
		domain.Succeeded(domain.CategoryTech, domain.NewPayload(), time.Millisecond),
		domain.Failed(domain.CategoryMeta, "timed out", 30*time.Second),
		// admin_paths ausente: el registro lo completa como fallo
	}
	return domain.NewReconRecord(target, fixtureStart, fixtureFinish, results)
}
