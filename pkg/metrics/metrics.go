// Package metrics provides Prometheus collectors for the gallery.
//
// A nil *Gallery is valid and records nothing, so handlers can run with
// metrics disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Problem kinds recorded by RecordListing.
const (
	ProblemDirectory = "directory"
	ProblemEntry     = "entry"
)

// Gallery holds the gallery request metrics.
type Gallery struct {
	requestsTotal   *prometheus.CounterVec
	listingProblems *prometheus.CounterVec
	itemsRendered   prometheus.Counter
	listedEntries   prometheus.Gauge
	renderDuration  prometheus.Histogram
}

// New registers the gallery collectors with reg.
func New(reg prometheus.Registerer) *Gallery {
	return &Gallery{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_gallery_requests_total",
				Help: "Total number of gallery page requests by outcome",
			},
			[]string{"status"},
		),
		listingProblems: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_gallery_listing_problems_total",
				Help: "Directory read problems that were absorbed while listing",
			},
			[]string{"kind"},
		),
		itemsRendered: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "video_gallery_items_rendered_total",
				Help: "Total number of video items rendered into gallery pages",
			},
		),
		listedEntries: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "video_gallery_listed_entries",
				Help: "Number of entries seen by the most recent directory listing",
			},
		),
		renderDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "video_gallery_request_duration_seconds",
				Help:    "Time spent listing, paginating and rendering a gallery page",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
	}
}

// RecordListing records the outcome of one directory listing.
func (g *Gallery) RecordListing(entries, entryProblems int, dirFailed bool) {
	if g == nil {
		return
	}
	g.listedEntries.Set(float64(entries))
	if entryProblems > 0 {
		g.listingProblems.WithLabelValues(ProblemEntry).Add(float64(entryProblems))
	}
	if dirFailed {
		g.listingProblems.WithLabelValues(ProblemDirectory).Inc()
	}
}

// RecordRequest records a finished gallery request.
func (g *Gallery) RecordRequest(status string, items int, took time.Duration) {
	if g == nil {
		return
	}
	g.requestsTotal.WithLabelValues(status).Inc()
	g.itemsRendered.Add(float64(items))
	g.renderDuration.Observe(took.Seconds())
}
