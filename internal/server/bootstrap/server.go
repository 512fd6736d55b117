package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cassandra/internal/logging"
	serverHTTP "cassandra/internal/server/http"
	"cassandra/internal/workspace"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// NewHTTPServer builds the API server for c.
func NewHTTPServer(c *Container, debug bool) *http.Server {
	router := serverHTTP.NewRouter(serverHTTP.RouterDeps{
		Service:        c.Service,
		Images:         c.Images,
		Health:         c.Health,
		Metrics:        c.Obs.Metrics,
		Tracer:         c.Obs.Tracer,
		AllowedOrigins: c.Config.Server.AllowedOrigins,
		RateLimit: serverHTTP.RateLimitConfig{
			RequestsPerMinute: c.Config.Server.RateLimitPerMinute,
			Burst:             c.Config.Server.RateLimitBurst,
		},
		Debug: debug,
	})
	return &http.Server{
		Addr:              net.JoinHostPort("", c.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RunServer serves HTTP and runs the output sweeper until ctx is cancelled,
// then shuts the server down gracefully.
func RunServer(ctx context.Context, c *Container, server *http.Server) error {
	logger := logging.NewComponentLogger("server")
	storage := c.Config.Storage
	sweeper := c.Workspace.NewSweeper(
		workspace.WithMaxAge(time.Duration(storage.MaxAgeMinutes)*time.Minute),
		workspace.WithInterval(time.Duration(storage.SweepIntervalMinutes)*time.Minute),
		workspace.WithSweeperMetrics(c.Obs.Metrics),
		workspace.WithKeep(c.Config.Deck.TemplatePath),
		workspace.WithSweeperLogger(logging.NewComponentLogger("sweeper")),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	logger.Info("Server stopped")
	return err
}
