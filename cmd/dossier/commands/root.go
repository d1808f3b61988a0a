package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dossier/internal/platform/config"
	"dossier/internal/platform/registry"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// BuildInfo se rellena desde main con los valores de -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// ExitError asocia un código de salida a un error de comando.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error   { return &ExitError{Code: ExitUsage, Err: err} }
func failureError(err error) error { return &ExitError{Code: ExitFailure, Err: err} }

// deps agrupa lo que los comandos toman del entorno, sustituible en tests.
type deps struct {
	info     BuildInfo
	registry *registry.LookupRegistry
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

func defaultDeps(info BuildInfo) *deps {
	return &deps{
		info:     info,
		registry: registry.Global(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		now:      time.Now,
	}
}

// Execute ejecuta la CLI y retorna el código de salida del proceso.
func Execute(info BuildInfo) int {
	d := defaultDeps(info)
	return run(context.Background(), d, os.Args[1:])
}

func run(ctx context.Context, d *deps, args []string) int {
	root := newRootCmd(d)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

// exitCode traduce un error a código de salida. Los errores de cobra
// (argumentos, flags desconocidos) cuentan como uso incorrecto.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

func newRootCmd(d *deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "dossier",
		Short:         "Automated domain reconnaissance with a PDF report",
		Long:          config.LongHelp + "\n\n" + config.EnvHelp(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	root.AddCommand(
		scanCmd(d),
		lookupsCmd(d),
		pathsCmd(d),
		configCmd(d),
		versionCmd(d),
	)
	return root
}
