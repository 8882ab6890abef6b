package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/buildinfo"
	"github.com/matzehuels/zbuilder/pkg/catalog"
)

// versionCommand creates the "version" command.
func (c *CLI) versionCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print zbuilder's version, or the library's with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !remote {
				fmt.Println(buildinfo.String())
				return nil
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			v, cached, err := catalog.Version(ctx, a.fetcher, a.session(ctx, c.refresh))
			if err != nil {
				return err
			}
			status := iconFresh
			if cached {
				status = iconCached
			}
			printKeyValue(a.cfg.Product, StyleHighlight.Render(v)+" "+StyleDim.Render(status))
			printDetail("Source: %s", a.fetcher.Repo())
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "print the library version from its package.json")
	return cmd
}
