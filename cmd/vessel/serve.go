package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/vessel"
	"github.com/aretw0/vessel/internal/adapters/file"
	httpAdapter "github.com/aretw0/vessel/internal/adapters/http"
	"github.com/aretw0/vessel/internal/adapters/redis"
	"github.com/aretw0/vessel/pkg/adapters/memory"
	"github.com/aretw0/vessel/pkg/observability"
	"github.com/aretw0/vessel/pkg/persistence/middleware"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP build service",
	Long: `Starts the build service. Models are built from posted configurations, cached
by configuration digest in the selected artifact store, and served as STL.
Prometheus metrics are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")

		store, closeStore, err := newStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		eng := vessel.New(vessel.WithLifecycleHooks(
			observability.Chain(observability.LogHooks(logger), metrics.Hooks()),
		))

		handler := httpAdapter.NewHandler(&httpAdapter.Server{
			Engine:  eng,
			Store:   store,
			Logger:  logger,
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		})

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serve(cmd.Context(), srv, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", "memory", "Artifact store: memory, file or redis")
	serveCmd.Flags().String("store-dir", "", "Directory for the file store (default .vessel/artifacts)")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis store")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expiry of cached models in redis (0 keeps them)")
	serveCmd.Flags().Bool("encrypt", false, "Encrypt stored models with the hex AES-256 key in VESSEL_STORE_KEY")
}

func newStore(cmd *cobra.Command) (ports.ArtifactStore, func(), error) {
	store, closeStore, err := baseStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	if encrypt, _ := cmd.Flags().GetBool("encrypt"); !encrypt {
		return store, closeStore, nil
	}

	key, err := hex.DecodeString(os.Getenv("VESSEL_STORE_KEY"))
	if err != nil || len(key) != 32 {
		closeStore()
		return nil, nil, errors.New("VESSEL_STORE_KEY must hold 64 hex characters (AES-256)")
	}
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	return mw(store), closeStore, nil
}

func baseStore(cmd *cobra.Command) (ports.ArtifactStore, func(), error) {
	kind, _ := cmd.Flags().GetString("store")
	switch kind {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "file":
		dir, _ := cmd.Flags().GetString("store-dir")
		return file.New(dir), func() {}, nil
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("redis-ttl")
		s := redis.New(addr, password, db, redis.WithTTL(ttl))
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q: supported memory, file, redis", kind)
	}
}

// serve runs srv until it fails or an interrupt arrives, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("vessel server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		// Give outstanding builds a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		logger.Info("vessel server stopped")
		return nil
	}
}
