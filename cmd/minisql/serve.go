package main

import (
	"github.com/spf13/cobra"

	"github.com/cabewaldrop/minisql/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis API",
	Long: `
Start an HTTP server exposing:

  GET  /health
  POST /api/analyze   {"sql": "..."}
  POST /api/tokens    {"sql": "..."}
  POST /api/schema    {"sql": "..."}  (?format=json|yaml|toml)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		defer logger.Sync()

		return web.NewServer(cfg, logger).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on (overrides server.port)")
}
