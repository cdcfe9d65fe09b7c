package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"video-gallery/pkg/config"
	"video-gallery/pkg/handlers"
	"video-gallery/pkg/logging"
	"video-gallery/pkg/render"
)

// SetupRouter wires the gallery, raw video, static asset, stats and metrics
// routes. Routes are mounted at the root; uri_path is only the public prefix
// used in generated links. gatherer may be nil when metrics are disabled.
func SetupRouter(cfg config.Config, h *handlers.Handlers, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(logger))

	r.SetHTMLTemplate(render.Templates())

	r.GET("/", h.HandleGallery)

	// Raw video files
	r.Static("/video", cfg.FSPath)

	// Static files for CSS
	static := r.Group("/static")
	static.Use(h.StaticCacheControl())
	static.Static("/", cfg.StaticDir)

	r.GET("/api/stats", h.HandleStats)

	if cfg.Metrics.Enabled && gatherer != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

// Run serves router on the configured port until ctx is cancelled, then
// shuts down gracefully within the configured timeout.
func Run(ctx context.Context, cfg config.Config, router http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gin server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("gin server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
