// Package adminpaths implements the admin panel finder: one GET per
// wordlist path, without following redirects, optionally paced. Any answer
// other than 404 is reported as a hit.
package adminpaths

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/lookups/web"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
)

func init() {
	registry.Global().MustRegister(
		domain.CategoryAdminPaths,
		func(settings ports.LookupSettings, logger logx.Logger) (ports.Lookup, error) {
			return New(settings, logger), nil
		},
		ports.LookupMetadata{
			Description: "Probes a wordlist of admin panel paths and lists every non-404 answer",
			Libraries:   []string{"golang.org/x/time/rate"},
		},
	)
}

const lookupName = "admin_paths"

//go:embed paths.txt
var builtinPaths string

// DefaultPaths retorna la wordlist embebida.
func DefaultPaths() []string {
	return ParseWordlist(strings.NewReader(builtinPaths))
}

// ParseWordlist lee una ruta por línea. Ignora líneas vacías y comentarios
// (#), quita la barra inicial y descarta duplicados conservando el orden.
func ParseWordlist(r io.Reader) []string {
	seen := make(map[string]struct{})
	out := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimLeft(line, "/")
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// Lookup implementa ports.Lookup para la categoría admin_paths.
type Lookup struct {
	*web.BaseLookup
	wordlist string
}

// New crea el lookup. La wordlist externa se lee en cada Run para que un
// fichero ilegible quede como fallo de la categoría.
func New(settings ports.LookupSettings, logger logx.Logger) *Lookup {
	return &Lookup{
		BaseLookup: web.NewBaseLookup(settings, logger, web.BaseConfig{
			LookupName:      lookupName,
			FollowRedirects: false,
			RateLimit:       settings.ProbeRate,
		}),
		wordlist: settings.AdminWordlist,
	}
}

// Category implements ports.Lookup
func (l *Lookup) Category() domain.Category {
	return domain.CategoryAdminPaths
}

// Run implements ports.Lookup
func (l *Lookup) Run(ctx context.Context, target domain.Target) (*domain.Payload, error) {
	paths, err := l.paths()
	if err != nil {
		return nil, err
	}

	_, base, err := l.FetchFirst(ctx, http.MethodGet, target, "/")
	if err != nil {
		return nil, err
	}

	l.Logger.Debug("probing admin paths", "base", base, "paths", len(paths))

	found := []string{}
	var failures []error
	for _, path := range paths {
		url := base + "/" + path
		resp, err := l.Get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures = append(failures, err)
			continue
		}
		if resp.StatusCode != http.StatusNotFound {
			found = append(found, fmt.Sprintf("%s (Status: %d)", url, resp.StatusCode))
		}
	}

	if len(paths) > 0 && len(failures) == len(paths) {
		return nil, errors.Unreachable(failures...)
	}

	l.Logger.Debug("admin path probing completed",
		"base", base,
		"found", len(found),
		"errors", len(failures),
	)

	payload := domain.NewPayload()
	payload.Set("Base URL", base)
	payload.Set("Probed", strconv.Itoa(len(paths)))
	payload.SetList("Found Panels", found)
	return payload, nil
}

func (l *Lookup) paths() ([]string, error) {
	if l.wordlist == "" {
		return DefaultPaths(), nil
	}

	f, err := os.Open(l.wordlist)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read wordlist %s", l.wordlist)
	}
	defer f.Close()

	return ParseWordlist(f), nil
}
