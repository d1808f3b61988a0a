package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dossier/internal/adapters/output"
	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/core/usecases"
	"dossier/internal/platform/config"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/registry"
	"dossier/internal/platform/ui"
)

func scanCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan <domain>",
		Short:   "Run every lookup against a domain and write the PDF report",
		Example: config.ScanExamples,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags())
			if err != nil {
				return usageError(fmt.Errorf("configuration: %w", err))
			}

			ctx, cancel := rootContextWithSignals(cmd.Context())
			defer cancel()

			return runScan(ctx, d, cfg, args[0])
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runScan ejecuta el flujo completo: objetivo, lookups, dispatcher, informe.
func runScan(ctx context.Context, d *deps, cfg config.Config, input string) error {
	logger := newLogger(d.stderr, cfg)

	target, err := domain.ParseTarget(input)
	if err != nil {
		return usageError(err)
	}

	lookups, err := buildLookups(d.registry, cfg, logger)
	if err != nil {
		return failureError(err)
	}
	defer closeLookups(lookups, logger)

	reportPath := cfg.Output.Path
	if reportPath == "" {
		reportPath = output.DefaultReportPath(cfg.Output.Dir, target, d.now())
	}

	presenter := ui.New(ui.Options{
		Mode:      cfg.UIMode(),
		LogFormat: ui.LogFormat(cfg.Log.Format),
		Writer:    d.stdout,
	})
	defer func() {
		if err := presenter.Close(); err != nil {
			logger.Warn("failed to close presenter", "error", err.Error())
		}
	}()

	presenter.Start(ui.ScanInfo{
		Target:             target.Domain,
		Input:              target.Input,
		Lookups:            len(domain.Categories()),
		TimeoutSeconds:     cfg.Core.TimeoutS,
		HTTPTimeoutSeconds: cfg.Lookups.HTTPTimeoutS,
		OutputPath:         reportPath,
	})

	dispatcher := usecases.NewDispatcher(usecases.DispatcherOptions{
		Lookups:       lookups,
		Logger:        logger,
		Progress:      presenter,
		LookupTimeout: cfg.Timeout(),
	})

	record, err := dispatcher.Run(ctx, target)
	if err != nil {
		presenter.Error(err.Error())
		return usageError(err)
	}

	if err := output.NewPDFWriter(logger).WriteFile(record, reportPath); err != nil {
		presenter.Error("could not write the report")
		return failureError(fmt.Errorf("write report: %w", err))
	}

	if cfg.Output.JSON {
		jsonPath := output.JSONPath(reportPath)
		if err := output.WriteJSON(record, jsonPath); err != nil {
			presenter.Error("could not write the JSON export")
			return failureError(fmt.Errorf("write json: %w", err))
		}
		presenter.Info("JSON export written to " + jsonPath)
	}

	if !cfg.Output.NoTable && cfg.UIMode() != ui.UIModeQuiet {
		if err := output.RenderTable(record, d.stdout); err != nil {
			logger.Warn("failed to render summary table", "error", err.Error())
		}
	}

	presenter.Finish(record, reportPath)
	return nil
}

// newLogger crea el logger del escaneo. Con la UI pretty los mensajes
// informativos se omiten para no romper los spinners.
func newLogger(w io.Writer, cfg config.Config) logx.Logger {
	lvl := cfg.LogLevel()
	if cfg.UIMode() == ui.UIModePretty && lvl == logx.LevelInfo {
		lvl = logx.LevelWarn
	}
	return logx.NewWithWriter(w, lvl)
}

// buildLookups construye los lookups registrados. Una factory que falla no
// detiene el escaneo: su categoría se registra como fallo con la causa.
func buildLookups(reg *registry.LookupRegistry, cfg config.Config, logger logx.Logger) ([]ports.Lookup, error) {
	lookups, err := reg.Build(cfg.Settings(), logger)
	if err == nil {
		return lookups, nil
	}

	failures := registry.BuildFailures(err)
	if len(failures) == 0 {
		return nil, fmt.Errorf("failed to build lookups: %w", err)
	}
	for _, f := range failures {
		lookups = append(lookups, unavailableLookup{category: f.Category, err: f.Err})
	}
	return lookups, nil
}

func closeLookups(lookups []ports.Lookup, logger logx.Logger) {
	for _, l := range lookups {
		c, ok := l.(ports.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Warn("failed to close lookup",
				"category", l.Category(),
				"error", err.Error(),
			)
		}
	}
}

// unavailableLookup ocupa el lugar de un lookup que no se pudo construir.
type unavailableLookup struct {
	category domain.Category
	err      error
}

func (u unavailableLookup) Category() domain.Category { return u.category }

func (u unavailableLookup) Run(context.Context, domain.Target) (*domain.Payload, error) {
	return nil, u.err
}
