package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/public/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/products/7", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	m.OrderCreated()
	m.StatusTransition("pending", "processing", "ok")
	m.StockRejected("set_status")
	m.Notification("telegram", "order.created", "failed")
	m.CatalogCache(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "dorada_orders_created_total 1"))
	assert.True(t, strings.Contains(body, `dorada_http_requests_total{method="GET",route="/api/v1/public/products/:id",status="200"} 2`))
	assert.True(t, strings.Contains(body, `dorada_order_status_transitions_total{from="pending",result="ok",to="processing"} 1`))
}

func TestNilMetricsIsInert(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.StatusTransition("a", "b", "ok")
		m.Notification("telegram", "x", "ok")
		m.CatalogCache(false)
	})
}
