// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"dossier/internal/core/domain"
)

const maxReasonWidth = 70

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar spinners, colores y símbolos en la terminal.
type PTermPresenter struct {
	mu sync.Mutex

	// Spinner del lookup en curso
	spinner  *pterm.SpinnerPrinter
	spinners bool

	// Tracking de progreso
	succeeded int
	failed    int
	started   time.Time
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{spinners: true}
}

// WithoutSpinners desactiva los spinners animados (terminales sin TTY)
func (p *PTermPresenter) WithoutSpinners() *PTermPresenter {
	p.spinners = false
	return p
}

// Start inicia la presentación mostrando el header del escaneo
func (p *PTermPresenter) Start(info ScanInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.succeeded, p.failed = 0, 0

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgBlue)).
		WithTextStyle(pterm.NewStyle(pterm.FgLightWhite)).
		Println("dossier - Automated Reconnaissance")

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Target").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgBlue))

	content := fmt.Sprintf("%s Target: %s\n", IconTarget, pterm.Cyan(info.Target))
	if info.Input != "" && info.Input != info.Target {
		content += fmt.Sprintf("   Input: %s\n", info.Input)
	}
	content += fmt.Sprintf("%s Lookups: %d\n", IconLookup, info.Lookups)
	content += fmt.Sprintf("%s Timeout: %ds per lookup, %ds per request", IconTime, info.TimeoutSeconds, info.HTTPTimeoutSeconds)
	if info.OutputPath != "" {
		content += fmt.Sprintf("\n%s Report: %s", IconReport, info.OutputPath)
	}

	infoPanel.Println(content)
	pterm.Println()
}

// LookupStarted arranca un spinner para el lookup
func (p *PTermPresenter) LookupStarted(cat domain.Category, index, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.spinners {
		return
	}

	spinner, err := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
		WithRemoveWhenDone(true).
		Start(fmt.Sprintf("[%d/%d] Running %s...", index+1, total, pterm.Cyan(cat.Title())))
	if err == nil {
		p.spinner = spinner
	}
}

// LookupFinished detiene el spinner y deja una línea con el resultado
func (p *PTermPresenter) LookupFinished(result domain.LookupResult, index, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}

	status := statusFor(result)
	line := fmt.Sprintf("  %s [%d/%d] %-26s %s",
		status.Style().Sprint(status.Symbol()),
		index+1,
		total,
		result.Category.Title(),
		StyleSecondary.Sprint(formatDuration(result.Duration)),
	)

	if result.OK() {
		p.succeeded++
	} else {
		p.failed++
		line += "  " + StyleError.Sprint(truncateReason(result.Failure, maxReasonWidth))
	}
	pterm.Println(line)
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish finaliza la presentación con estadísticas finales
func (p *PTermPresenter) Finish(record *domain.ReconRecord, reportPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}

	ok, failed, d := summarize(record)

	pterm.Println()
	pterm.Println(StylePrimary.Sprint(rule))
	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Scan Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("%s Total Duration: %s\n", IconTime, pterm.Green(formatDuration(d)))
	content += fmt.Sprintf("%s Lookups: %s ok, %s not available",
		IconStats,
		StyleSuccess.Sprint(fmt.Sprintf("%d", ok)),
		StyleError.Sprint(fmt.Sprintf("%d", failed)),
	)
	statsPanel.Println(content)

	if reportPath != "" {
		pterm.Info.Printf("Report written to %s\n", reportPath)
	}
}

// Close detiene cualquier spinner que siga activo
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		err := p.spinner.Stop()
		p.spinner = nil
		return err
	}
	return nil
}

// counts retorna los contadores acumulados
func (p *PTermPresenter) counts() (ok, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.succeeded, p.failed
}
