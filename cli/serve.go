package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/middleware"
	"github.com/agrivista/api-go/routes"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	return cmd
}

// NewEngine assembles the gin engine with the ambient middleware and every route.
func NewEngine(deps *routes.Dependencies, registry *prometheus.Registry, cfg *config.Config) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.SetGinDebugPrintRouteFunc(logger.L)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		logger.GinMiddleware(logger.L),
		gin.Recovery(),
		middleware.CORS(cfg.CORS.Origins),
		middleware.NewMetrics(registry).Handler(),
	)

	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "database unavailable", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	routes.SetupRoutes(r, deps)
	return r
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	defer logger.Sync()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if migrate {
		if err := config.Migrate(a.deps.DB); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewEngine(a.deps, a.registry, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.L.Info("server exited")
	return nil
}
