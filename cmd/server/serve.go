package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/naikprasad87/transport-facility/internal/api"
	"github.com/naikprasad87/transport-facility/internal/api/handlers"
	"github.com/naikprasad87/transport-facility/internal/api/stream"
	"github.com/naikprasad87/transport-facility/internal/config"
	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/logger"
	"github.com/naikprasad87/transport-facility/internal/metrics"
	"github.com/naikprasad87/transport-facility/internal/notify"
	"github.com/naikprasad87/transport-facility/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// serve wires the registry to its store, metrics and change sinks, then runs
// the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New("server")

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close ride store")
		}
	}()

	opts := registryOptions(cfg)
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		recorder, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		opts = append(opts, services.WithMetrics(recorder))
		metricsHandler = promhttp.Handler()
	}

	registry := services.NewRideRegistry(store, opts...)
	registry.Load(ctx)

	changes := logger.New("changes")
	registry.OnChange(func(rides []entities.Ride) {
		changes.Info().Int("rides", len(rides)).Msg("ride list changed")
	})

	hub := stream.NewHub(logger.New("stream"), stream.AllowOrigins(cfg.Server.AllowedOrigins))
	defer hub.Close()
	cancelHub := registry.OnChange(hub.Listener())
	defer cancelHub()

	if cfg.MQTT.Enabled {
		pub, err := notify.DialMQTT(cfg.MQTT, logger.New("mqtt"))
		if err != nil {
			// The API stays useful without the broker.
			log.Warn().Err(err).Msg("mqtt publisher disabled")
		} else {
			cancelMQTT := registry.OnChange(pub.Listener())
			defer func() {
				cancelMQTT()
				pub.Close()
			}()
		}
	}

	if !strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.NewRouter(handlers.NewRideHandler(registry), hub, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metricsHandler,
		Logger:         logger.New("http"),
	}).Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("starting carpool server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
