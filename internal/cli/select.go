package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
)

// selectCommand creates the interactive "select" command.
func (c *CLI) selectCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick modules interactively and build a bundle",
		Long: `Open an interactive module picker. Default modules start selected; press
enter to generate once at least one module is selected. The last generated
bundle is written to --output when the picker closes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			spinner := newSpinnerWithContext(ctx, "Fetching modules from "+a.fetcher.Repo()+"...")
			spinner.Start()
			modules, err := a.catalog.Modules(ctx)
			var version string
			if err == nil {
				version, _, err = catalog.Version(ctx, a.fetcher, a.session(ctx, c.refresh))
				if err != nil {
					a.logger.Warn("fetch library version", "error", err)
					err = nil
				}
			}
			spinner.Stop()
			if err != nil {
				return err
			}

			opts := flags.options()
			start := func(names []string, minify bool) *bundle.Job {
				o := opts
				o.Minify = minify
				return a.assembler.GenerateAsync(ctx, modules, names, o)
			}
			model := NewSelectorModel(modules, version, flags.minify, start)

			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				if ctx.Err() != nil {
					return context.Cause(ctx)
				}
				return err
			}
			m := final.(*SelectorModel)
			if m.Result == nil {
				printInfo("No bundle generated")
				return nil
			}
			return c.emit(a, m.Result, flags.output)
		},
	}

	flags.register(cmd)
	return cmd
}
