package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gst_invoice"

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry prometheus.Gatherer

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	documentsIssued *prometheus.CounterVec
	documentRenders *prometheus.CounterVec
	printJobs       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegisterer(reg, reg)
}

// NewWithRegisterer registers the collectors on reg and serves them from gatherer.
func NewWithRegisterer(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		registry: gatherer,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		documentsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_issued_total",
			Help:      "Documents issued by type and tax type.",
		}, []string{"type", "tax_type"}),
		documentRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_renders_total",
			Help:      "Rendered document outputs by format and result.",
		}, []string{"format", "result"}),
		printJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "print_jobs_total",
			Help:      "Thermal printer jobs by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.documentsIssued, m.documentRenders, m.printJobs)
	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// DocumentIssued counts a newly numbered document.
func (m *Metrics) DocumentIssued(docType, taxType string) {
	if m == nil {
		return
	}
	m.documentsIssued.WithLabelValues(docType, taxType).Inc()
}

// DocumentRendered counts a PDF, print or email render attempt.
func (m *Metrics) DocumentRendered(format string, err error) {
	if m == nil {
		return
	}
	m.documentRenders.WithLabelValues(format, result(err)).Inc()
}

// PrintJob counts a job sent to the thermal printer.
func (m *Metrics) PrintJob(err error) {
	if m == nil {
		return
	}
	m.printJobs.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
