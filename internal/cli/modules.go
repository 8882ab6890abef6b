package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/catalog"
)

// modulesCommand creates the "modules" command.
func (c *CLI) modulesCommand() *cobra.Command {
	var asJSON, fragment bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List the library's modules",
		Long: `List the modules found in the library's source directory together with
their descriptions and whether they are part of the default build.

With --fragment the rendered catalog fragment is printed instead. The fragment
is kept in the session and reused until it expires or --refresh is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if fragment {
				view, err := a.catalog.Load(ctx, a.session(ctx, c.refresh))
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, view.Fragment)
				a.logger.Debug("catalog fragment", "cached", view.FromCache, "bytes", len(view.Fragment))
				return nil
			}

			spinner := newSpinnerWithContext(ctx, "Fetching modules from "+a.fetcher.Repo()+"...")
			spinner.Start()
			prog := newProgress(a.logger)
			modules, err := a.catalog.Modules(ctx)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d modules", len(modules)))

			if asJSON {
				return writeModulesJSON(modules)
			}
			printModulesTable(modules)
			size := 0
			for _, m := range modules {
				size += m.Size
			}
			printCatalogStats(len(modules), len(catalog.Defaults(modules)), size, false)
			printNewline()
			printNextStep("Build the default set", "zbuilder build --defaults --minify")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print modules as JSON")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "print the rendered catalog fragment")
	return cmd
}

type moduleListing struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
	Size        int    `json:"size"`
}

func writeModulesJSON(modules []catalog.Module) error {
	out := make([]moduleListing, len(modules))
	for i, m := range modules {
		out[i] = moduleListing{Name: m.Name, Description: m.Description, Default: m.IncludedByDefault, Size: m.Size}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printModulesTable(modules []catalog.Module) {
	rows := make([][]string, len(modules))
	for i, m := range modules {
		def := ""
		if m.IncludedByDefault {
			def = iconSuccess
		}
		rows[i] = []string{m.Name, def, formatBytes(m.Size), m.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Module", "Default", "Size", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorGray)
			case row < len(modules) && modules[row].IncludedByDefault:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		})
	fmt.Println(t.Render())
}
