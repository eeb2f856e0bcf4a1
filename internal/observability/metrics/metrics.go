package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments. A nil *Metrics is a no-op so
// services can take it as an optional dependency.
type Metrics struct {
	donationsCompleted  prometheus.Counter
	certificatesIssued  prometheus.Counter
	certificatesVoided  prometheus.Counter
	httpRequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		donationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sevasetu_donations_completed_total",
			Help: "Donations transitioned to COMPLETED.",
		}),
		certificatesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sevasetu_certificates_issued_total",
			Help: "80G certificates issued.",
		}),
		certificatesVoided: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sevasetu_certificates_voided_total",
			Help: "80G certificates voided.",
		}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sevasetu_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(
		m.donationsCompleted,
		m.certificatesIssued,
		m.certificatesVoided,
		m.httpRequestDuration,
	)
	return m
}

func (m *Metrics) IncDonationCompleted() {
	if m == nil {
		return
	}
	m.donationsCompleted.Inc()
}

func (m *Metrics) IncCertificateIssued() {
	if m == nil {
		return
	}
	m.certificatesIssued.Inc()
}

func (m *Metrics) IncCertificateVoided() {
	if m == nil {
		return
	}
	m.certificatesVoided.Inc()
}

// GinMiddleware records the request latency histogram.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
