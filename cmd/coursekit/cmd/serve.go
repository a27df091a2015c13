package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/server"
	"github.com/conecourse/editor/internal/venue"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the editor server",
	Long: `Serve the course editor. Every WebSocket connection on /ws gets its own
editor; /search_venue geocodes addresses and /healthcheck reports liveness.

Examples:
  coursekit serve
  coursekit serve --listen :8080 --static ./web`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides server.listen)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "directory of web assets to serve at /")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.GetServerConfig()
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveStatic != "" {
		cfg.StaticDir = serveStatic
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, server.Deps{
		Logger:   Logger,
		Searcher: venue.FromConfig(config.GetVenueConfig()),
		Editor:   editorDeps(),
	})

	Logger.Info("Starting editor server", "version", Version, "build", BuildDate, "listen", cfg.Listen)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	Logger.Info("Editor server stopped")
	return nil
}
