package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "calotrack",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calotrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calotrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calotrack",
			Subsystem: "ai",
			Name:      "classifications_total",
			Help:      "Image classifications by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	classificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calotrack",
			Subsystem: "ai",
			Name:      "classification_duration_seconds",
			Help:      "Duration of upstream image classification calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider"},
	)

	mealsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calotrack",
			Subsystem: "meals",
			Name:      "saved_total",
			Help:      "Meals saved by detection method.",
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		classifications,
		classificationDuration,
		mealsSaved,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency keyed by route pattern.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordClassification counts one classifier call. outcome is "success", a
// failure reason ("quota", "connection", "no_prediction", "error") or "fallback"
// when the analysis substituted default values.
func RecordClassification(provider, outcome string, duration time.Duration) {
	classifications.WithLabelValues(provider, outcome).Inc()
	classificationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func RecordMealSaved(method string) {
	mealsSaved.WithLabelValues(method).Inc()
}
