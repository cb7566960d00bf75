package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/ensgraph/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve profiles, pair validation and custom connections over HTTP",
	Long: `Start the HTTP API used by graph front-ends:

	GET    /profiles/{name}
	POST   /pairs/validate
	POST   /graph
	GET    /edges
	POST   /edges
	DELETE /edges
	DELETE /edges/all
	GET    /metrics

It stops gracefully on interrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return withEdges(cmd, func(e *edges) error {
			s := server.New(resolver(), e.Mirrored,
				server.WithMetrics(appMetrics),
				server.WithLogger(appLogger),
				server.WithCORSOrigins(appConfig.Server.CORSOrigins),
			)
			appUI.Info("Listening on %s", addr)
			return s.ListenAndServe(cmd.Context(), addr)
		})
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address, overrides server.addr of the config")
	rootCmd.AddCommand(serveCmd)
}
