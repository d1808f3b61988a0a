// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"dossier/internal/platform/validator"
)

// Target representa el objetivo del reconocimiento: un único dominio.
type Target struct {
	// Input es el texto original introducido por el usuario
	Input string

	// Domain es el host extraído y normalizado (sin esquema, ruta ni puerto)
	Domain string
}

// ParseTarget construye un Target a partir de un dominio o una URL y lo valida.
// Un input vacío o un host mal formado bloquean el escaneo antes de despachar
// ningún lookup.
func ParseTarget(input string) (Target, error) {
	t := Target{
		Input:  strings.TrimSpace(input),
		Domain: validator.HostFromInput(input),
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// Validate verifica que el target sea válido.
func (t Target) Validate() error {
	if validator.IsEmpty(t.Input) && validator.IsEmpty(t.Domain) {
		return ErrEmptyTarget
	}

	if validator.IsEmpty(t.Domain) {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, t.Input)
	}

	if validator.IsIP(t.Domain) {
		return fmt.Errorf("%w: %s is an IP address", ErrInvalidDomain, t.Domain)
	}

	if !validator.IsDomain(t.Domain) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Domain)
	}

	return nil
}

// FileStem convierte el dominio en un nombre de fichero seguro.
// Ejemplo: "www.example.com" -> "www_example_com"
func (t Target) FileStem() string {
	stem := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, t.Domain)
	if stem == "" {
		return "target"
	}
	return stem
}

// String retorna el dominio objetivo.
func (t Target) String() string {
	return t.Domain
}
