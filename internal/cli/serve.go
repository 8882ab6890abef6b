package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the builder over HTTP",
		Long: `Serve the builder API. Each client gets its own session, so the library
version and the rendered catalog are cached per client.

Bundles published to the file, mongo or s3 backend can be downloaded from
/downloads/{id}. With the s3 backend, generate responses carry presigned
URLs instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openWith(cmd, map[string]string{"addr": "server.addr"})
			if err != nil {
				return err
			}
			defer a.Close()

			store, _ := a.publisher.(blob.Store)
			srv := server.New(server.Config{
				Catalog:   a.catalog,
				Version:   a.fetcher,
				Sessions:  a.sessions,
				Assembler: a.assembler,
				Downloads: store,
				Logger:    a.logger,
			})

			printInfo("Serving %s on %s", StyleHighlight.Render(a.fetcher.Repo()), StyleLink.Render(a.cfg.Server.Addr))
			printDetail("Sessions: %s · Publish: %s", a.cfg.Session.Backend, a.cfg.Publish.Backend)
			return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
