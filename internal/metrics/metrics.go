package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's collectors. A nil *Recorder records nothing,
// which is how metrics are switched off.
type Recorder struct {
	reg *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	uploads            *prometheus.CounterVec
	sessionsCreated    *prometheus.CounterVec
	validationsFailed  prometheus.Counter
	validationDuration prometheus.Histogram
	overflows          prometheus.Counter
	activeSessions     prometheus.Gauge
	uniqueRoms         prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ss_requests_total",
			Help: "Total requests",
		}, []string{"endpoint", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ss_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ss_uploads_total",
			Help: "Total JSON uploads",
		}, []string{"edition"}),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ss_sessions_created_total",
			Help: "Total sessions created",
		}, []string{"edition"}),
		validationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ss_validations_failed_total",
			Help: "Total validation failures",
		}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ss_validation_duration_seconds",
			Help:    "Validation duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ss_region_overflows_total",
			Help: "Re-encodes rejected because team data outgrew the rom",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ss_active_sessions",
			Help: "Current active sessions",
		}),
		uniqueRoms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ss_unique_roms",
			Help: "Number of unique roms seen since start",
		}),
	}
	r.reg.MustRegister(
		r.requests, r.requestDuration, r.uploads, r.sessionsCreated,
		r.validationsFailed, r.validationDuration, r.overflows,
		r.activeSessions, r.uniqueRoms,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware counts every request by its route template, not its raw path.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		r.requests.WithLabelValues(endpoint, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (r *Recorder) SessionCreated(edition string) {
	if r == nil {
		return
	}
	r.sessionsCreated.WithLabelValues(edition).Inc()
}

func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

func (r *Recorder) SetUniqueRoms(n int) {
	if r == nil {
		return
	}
	r.uniqueRoms.Set(float64(n))
}

func (r *Recorder) Upload(edition string) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(edition).Inc()
}

func (r *Recorder) Validation(d time.Duration, valid bool) {
	if r == nil {
		return
	}
	r.validationDuration.Observe(d.Seconds())
	if !valid {
		r.validationsFailed.Inc()
	}
}

func (r *Recorder) Overflow() {
	if r == nil {
		return
	}
	r.overflows.Inc()
}
