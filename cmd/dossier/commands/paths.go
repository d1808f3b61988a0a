package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dossier/internal/lookups/adminpaths"
)

func pathsCmd(d *deps) *cobra.Command {
	var wordlist string

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the admin panel paths probed by scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := adminpaths.DefaultPaths()
			if wordlist != "" {
				f, err := os.Open(wordlist)
				if err != nil {
					return usageError(fmt.Errorf("open wordlist: %w", err))
				}
				defer f.Close()
				paths = adminpaths.ParseWordlist(f)
			}

			var b strings.Builder
			for _, p := range paths {
				b.WriteString("/" + p + "\n")
			}
			_, err := fmt.Fprint(d.stdout, b.String())
			return err
		},
	}
	cmd.Flags().StringVar(&wordlist, "wordlist", "", "Parse this wordlist instead of the built-in one")
	return cmd
}
