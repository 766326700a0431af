package cli

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the backlog over HTTP. The API mirrors the CLI: articles can
be saved, listed, updated and exported at /api/articles and /api/export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		srv := &server.Server{
			Store: app.NewStore(cfg),
			Pipe:  app.NewPipeline(cfg),
		}
		httpServer := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		log.Info().Str("addr", cfg.ListenAddr).Str("data", cfg.DataPath).Msg("listening")
		return httpServer.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (host:port)")
}
