package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dossier/internal/platform/config"
)

func versionCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(d.stdout, config.VersionString(d.info.Version, d.info.Commit, d.info.Date))
			return err
		},
	}
}
