package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"video-gallery/pkg/cachedstats"
	"video-gallery/pkg/config"
	"video-gallery/pkg/listing"
	"video-gallery/pkg/logging"
	"video-gallery/pkg/metrics"
	"video-gallery/pkg/render"
)

// Handlers serves the gallery routes. It only reads its fields, so one value
// is shared by all requests.
type Handlers struct {
	cfg     config.Config
	opts    render.Options
	logger  *zap.Logger
	metrics *metrics.Gallery
	stats   *cachedstats.CachedStats
}

// New builds the handlers for cfg. m and cache may be nil.
func New(cfg config.Config, logger *zap.Logger, m *metrics.Gallery, cache *cachedstats.CachedStats) (*Handlers, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		cfg: cfg,
		opts: render.Options{
			BasePath:        cfg.URIPath,
			InstanceName:    cfg.InstanceName,
			PageSize:        cfg.VideoCount,
			ParseTimestamps: cfg.ParseTimestamps,
			Location:        loc,
		},
		logger:  logger,
		metrics: m,
		stats:   cache,
	}, nil
}

// ParsePage reads the page query parameter. Missing or non-numeric values
// fall back to page 1.
func ParsePage(raw string) uint {
	if raw == "" {
		return 1
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 1
	}
	return uint(n)
}

// HandleGallery lists the video directory and renders the requested page.
// Directory and entry errors only degrade the page, they never fail it.
func (h *Handlers) HandleGallery(c *gin.Context) {
	start := time.Now()
	log := logging.FromContext(c, h.logger)

	l := listing.List(h.cfg.FSPath, h.cfg.SortDescending)
	if l.Err != nil {
		log.Error("video directory unreadable, serving empty gallery",
			zap.String("path", h.cfg.FSPath), zap.Error(l.Err))
	}
	for _, problem := range l.Problems {
		log.Warn("skipped directory entry", zap.String("path", h.cfg.FSPath), zap.Error(problem))
	}
	h.metrics.RecordListing(l.Len(), len(l.Problems), l.Err != nil)

	data := render.NewPageData(l.Names, h.opts, ParsePage(c.Query("page")))
	log.Debug("rendering gallery page",
		zap.Int("page", data.Page.Number),
		zap.Int("max_pages", data.Page.MaxPages),
		zap.Int("items", len(data.Items)),
		zap.Bool("empty", data.Page.Empty()))

	c.HTML(http.StatusOK, render.GalleryTemplate, data)
	status := "ok"
	if len(c.Errors) > 0 {
		status = "error"
	}
	h.metrics.RecordRequest(status, len(data.Items), time.Since(start))
}

// HandleStats returns the cached library statistics.
func (h *Handlers) HandleStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "statistics are disabled"})
		return
	}
	c.JSON(http.StatusOK, h.stats.GetData())
}

// StaticCacheControl sets the configured Cache-Control header on static
// asset responses.
func (h *Handlers) StaticCacheControl() gin.HandlerFunc {
	value := h.cfg.StaticCacheControl()
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
