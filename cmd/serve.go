package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/server"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboards over HTTP",
	Long: `Start an HTTP server answering dashboard requests.

Endpoints:
  POST /api/dashboard       {"repository":"owner/name","startDate":"...","endDate":"..."}
  GET  /api/dashboard       ?repository=owner/name&startDate=...&endDate=...
  GET  /api/cache/status
  GET  /healthz

A bearer token in the Authorization header overrides the configured token.
Responses use the {"success":true,"data":{...}} or {"success":false,"error":"..."} envelope.

Examples:
  # Serve on the default port
  REPOPULSE_TOKEN=ghp_... repopulse serve

  # Custom address and a shorter timeout, backed by PostgreSQL
  repopulse serve --listen 127.0.0.1:9000 --request-timeout 30s --cache-backend postgresql --cache-db-connect "host=... dbname=repopulse"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			contract.LogFatal("Cannot create dashboard service", err)
		}
		if err := server.New(cfg, svc, logger).Run(ctx); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
