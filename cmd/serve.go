package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/db"
	"github.com/yumyai/blutable/pkg/handler"
	"github.com/yumyai/blutable/pkg/loader"
	"github.com/yumyai/blutable/pkg/view"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web explorer",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	defer logger.Sync() // Make sure that the buffered is flushed.

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := db.OpenRegistry(ctx)
	if err != nil {
		return err
	}
	defer registry.Close()

	l := loader.New(&http.Client{Timeout: cfg.FetchTimeout}, cfg.MaxDocumentBytes)
	app, err := handler.NewAppContext(l, registry, view.ExplorerOptions{
		PageSize:  cfg.PageSize,
		RowHeight: cfg.RowHeight,
		Locale:    cfg.Tag(),
		CacheSize: cfg.CacheSize,
	}, handler.SessionLimits{
		MaxSessions: cfg.MaxSessions,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	if err != nil {
		return err
	}
	app.ExampleURL = cfg.ExampleURL
	app.FetchTimeout = cfg.FetchTimeout
	handler.Version = version

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.NewRouter(app, cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Start:", zap.String("Version", version))
	logger.Info("Server starting", zap.String("addr", cfg.Addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting server:", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
