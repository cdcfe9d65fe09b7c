package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video-gallery/pkg/cachedstats"
	"video-gallery/pkg/config"
	"video-gallery/pkg/handlers"
	"video-gallery/pkg/metrics"
	"video-gallery/pkg/stats"
)

func TestMain(m *testing.M) {
	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTest(t *testing.T) (config.Config, *gin.Engine) {
	videoDir := t.TempDir()
	staticDir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.mp4", "c.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(videoDir, name), []byte("video:"+name), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "style.css"), []byte("body{}"), 0644))

	cfg := config.Config{
		Port:            8080,
		FSPath:          videoDir,
		URIPath:         "/cam",
		InstanceName:    "Front Door",
		VideoCount:      2,
		StaticDir:       staticDir,
		Timezone:        "UTC",
		ShutdownTimeout: time.Second,
		Metrics:         config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	reg := prometheus.NewRegistry()
	cache := cachedstats.New(func() stats.Library { return stats.Collect(cfg.FSPath, time.UTC) })
	h, err := handlers.New(cfg, zap.NewNop(), metrics.New(reg), cache)
	require.NoError(t, err)

	return cfg, SetupRouter(cfg, h, zap.NewNop(), reg)
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter(t *testing.T) {
	_, router := setupTest(t)
	assert.NotNil(t, router)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="/cam/video/a.mp4"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(router, "/video/a.mp4")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video:a.mp4", w.Body.String())

	w = get(router, "/video/missing.mp4")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/static/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "max-age=14400", w.Header().Get("Cache-Control"))
	assert.Equal(t, "body{}", w.Body.String())

	w = get(router, "/api/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"video_count":3`)

	w = get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "video_gallery_requests_total")
}

func TestSetupRouterMetricsDisabled(t *testing.T) {
	cfg, _ := setupTest(t)
	cfg.Metrics.Enabled = false
	h, err := handlers.New(cfg, zap.NewNop(), nil, nil)
	require.NoError(t, err)

	router := SetupRouter(cfg, h, zap.NewNop(), nil)
	assert.Equal(t, http.StatusNotFound, get(router, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(router, "/").Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg, router := setupTest(t)
	cfg.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, router, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
