package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"dossier/internal/core/domain"
)

func lookupsCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "lookups [category]",
		Short: "List the registered lookups in report order",
		Long: `List the registered lookups in report order.

With a category key (whois, dns, geo, ssl, headers, robots, tech, meta,
admin_paths) only that lookup is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := d.registry.List()
			if len(args) == 1 {
				cat, err := domain.ParseCategory(strings.ToLower(strings.TrimSpace(args[0])))
				if err != nil {
					return err
				}
				if !d.registry.IsRegistered(cat) {
					return failureError(fmt.Errorf("no lookup registered for %s", cat))
				}
				categories = []domain.Category{cat}
			}

			data := pterm.TableData{{"Category", "Section", "Web", "Description", "Libraries"}}
			for _, cat := range categories {
				meta, _ := d.registry.GetMetadata(cat)
				libs := strings.Join(meta.Libraries, ", ")
				if libs == "" {
					libs = "-"
				}
				web := "no"
				if cat.RequiresWebServer() {
					web = "yes"
				}
				data = append(data, []string{string(cat), cat.Title(), web, meta.Description, libs})
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return failureError(err)
			}
			_, err = fmt.Fprintln(d.stdout, out)
			return err
		},
	}
}
