package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg, reg)

	m.DocumentIssued("invoice", "interstate")
	m.DocumentIssued("invoice", "interstate")
	m.DocumentRendered("pdf", nil)
	m.DocumentRendered("pdf", errors.New("boom"))
	m.PrintJob(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documentsIssued.WithLabelValues("invoice", "interstate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentRenders.WithLabelValues("pdf", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.printJobs.WithLabelValues("ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DocumentIssued("invoice", "intrastate")
		m.DocumentRendered("pdf", nil)
		m.PrintJob(nil)
	})
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gst_invoice_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
