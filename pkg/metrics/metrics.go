package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Record aggregation metrics
	RecordLoads       *prometheus.CounterVec
	RecordLoadLatency prometheus.Histogram
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter

	// Upload workflow metrics
	UploadsTotal       *prometheus.CounterVec
	UploadLatency      prometheus.Histogram
	OrphanedUploads    prometheus.Counter
	CompensatedUploads prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		RecordLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_loads_total",
			Help:      "Patient record loads by result (ok, not_found, error)",
		}, []string{"result"}),
		RecordLoadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_load_duration_seconds",
			Help:      "Time spent aggregating a patient's records",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_cache_hits_total",
			Help:      "Bundle cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_cache_misses_total",
			Help:      "Bundle cache misses",
		}),
		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "test_image_uploads_total",
			Help:      "Test image uploads by result (ok, upload_failed, link_failed)",
		}, []string{"result"}),
		UploadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "test_image_upload_duration_seconds",
			Help:      "Time spent in the upload-and-link workflow",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OrphanedUploads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orphaned_uploads_total",
			Help:      "Uploads whose compensating delete failed after a link failure",
		}),
		CompensatedUploads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compensated_uploads_total",
			Help:      "Uploads deleted after a link failure",
		}),
	}
}
