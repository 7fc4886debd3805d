package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/portal/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal REST API server",
	Long: `Start an HTTP server exposing projects and tickets under /api.
By default it listens on port 8000. Use --port to change it.

When api_key is set, every /api request must carry it in X-API-Key.
GET /healthz is always open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8000, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

// newAPIServer wires the REST handlers to the shared services.
func newAPIServer(app *appServices) *api.Server {
	srv := api.NewServer(app.projects, app.tickets, app.logger, viper.GetString("api_key"))
	if c := newLLMClient(); c != nil {
		srv.SetEnricher(c)
	}
	return srv
}

func serveRun() error {
	if viper.GetString("backend") == backendRemote {
		return fmt.Errorf("serve needs the local backend (got backend=%s)", backendRemote)
	}

	app, err := getServices()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", viper.GetInt("port"))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           newAPIServer(app).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	ui.Info("Serving portal API at http://localhost%s/api", addr)
	app.logger.Info("server started", "addr", addr, "auth", viper.GetString("api_key") != "")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	ui.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
