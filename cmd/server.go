package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/jobs"
	"clinic-booking/internal/wire"
	"clinic-booking/pkg/cache"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/notify"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// ServeCmd runs the HTTP API
type ServeCmd struct {
	Port string `help:"Override the listen port."`
}

func (c *ServeCmd) Run(app *Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := app.Config
	logger := app.Logger
	if c.Port != "" {
		config.App.Port = c.Port
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// 1. Connect to database
	db, err := app.connect(ctx, config.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Slot cache, shared through redis when configured
	var slotCache cache.SlotCache
	if config.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, config.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		slotCache = cache.NewRedisCache(client, config.Redis.SlotTTL)
		logger.Info("Using redis slot cache", zap.String("addr", config.Redis.Addr))
	} else {
		slotCache = cache.NewMemoryCache(config.Redis.SlotTTL)
	}

	// 3. Wire all dependencies
	m := metrics.New()
	mailer := notify.NewMailer(config.Email, logger)
	defer mailer.Wait()

	repos := repository.NewRepository(db, logger)
	application := wire.Wiring(repos, config, slotCache, m, mailer, logger)

	// 4. Background jobs
	scheduler, err := jobs.New(config.Jobs, repos.Session, application.Service.Appointment, application.Limiter, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	return APIServer(ctx, application.Router, config.App.Port, logger)
}

// APIServer serves route until ctx is cancelled, then drains in-flight requests
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
