package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dossier/internal/platform/config"
)

func configCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: "Resolves defaults, the YAML file, DOSSIER_* variables and flags exactly\n" +
			"like scan does, and prints the result. The output can be used as --config file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags())
			if err != nil {
				return usageError(fmt.Errorf("configuration: %w", err))
			}

			out, err := cfg.ToYAML()
			if err != nil {
				return failureError(err)
			}
			if cfg.File != "" {
				fmt.Fprintf(d.stdout, "# loaded from %s\n", cfg.File)
			}
			_, err = fmt.Fprint(d.stdout, out)
			return err
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}
