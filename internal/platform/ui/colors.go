// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta de colores del informe en terminal

// Colores primarios
var (
	// InkBlue - headers y elementos principales
	InkBlue = pterm.NewRGB(52, 101, 164)

	// Signal red - fallos de lookup
	SignalRed = pterm.NewRGB(204, 51, 51)

	// Amber - advertencias
	Amber = pterm.NewRGB(230, 160, 30)

	// Slate - texto secundario, elementos pendientes
	Slate = pterm.NewRGB(110, 110, 110)

	// Teal - lookups correctos
	Teal = pterm.NewRGB(0, 168, 150)
)

// Estilos preconfigurados para diferentes contextos
var (
	StylePrimary   = InkBlue.ToRGBStyle()
	StyleSuccess   = Teal.ToRGBStyle()
	StyleWarning   = Amber.ToRGBStyle()
	StyleError     = SignalRed.ToRGBStyle()
	StyleSecondary = Slate.ToRGBStyle()
)
