// cmd/dossier/main.go
package main

import (
	"os"

	"dossier/cmd/dossier/commands"

	// Import lookups for auto-registration via init()
	_ "dossier/internal/lookups/adminpaths"
	_ "dossier/internal/lookups/dns"
	_ "dossier/internal/lookups/geo"
	_ "dossier/internal/lookups/headers"
	_ "dossier/internal/lookups/meta"
	_ "dossier/internal/lookups/robots"
	_ "dossier/internal/lookups/tech"
	_ "dossier/internal/lookups/tlscert"
	_ "dossier/internal/lookups/whois"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(commands.Execute(commands.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}))
}
