package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/winegallery/internal/catalog"
	"github.com/HerbHall/winegallery/internal/plugin"
	"github.com/HerbHall/winegallery/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the gallery and quiz APIs under /api/v1, plus /api/v1/health,
/api/v1/modules and /metrics. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newEngine(ctx)
	if err != nil {
		return err
	}
	handler := catalog.NewHandler(engine, logger)

	// Modules are composed at compile time.
	registry := plugin.NewRegistry(logger)
	for _, p := range []plugin.Plugin{
		catalog.NewGalleryModule(handler),
		catalog.NewQuizModule(handler),
	} {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	if err := registry.InitAll(v); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}

	addr := settings.Server.Addr()
	srv := server.New(addr, registry, logger, server.Options{
		RateLimit: settings.Server.RateLimit,
		RateBurst: settings.Server.RateBurst,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
		defer cancel()
		registry.StopAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	logger.Info("WineGallery server ready", zap.String("addr", addr))
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("WineGallery server stopped")
	return nil
}
