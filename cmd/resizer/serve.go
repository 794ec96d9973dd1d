package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phambaophuc/rich-menu-resizer/internal/http/handlers"
	"github.com/phambaophuc/rich-menu-resizer/internal/http/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resize API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var jobs handlers.JobQueue
		if a.queue != nil {
			jobs = a.queue
		}

		gin.SetMode(gin.ReleaseMode)
		imageHandler := handlers.NewImageHandler(a.resizer, a.storage, jobs, logger)
		router := routes.NewRouter(imageHandler, logger)

		server := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			Handler:      router.SetupRoutes(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting server", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}

		logger.Info("Server exited")
		return nil
	},
}
