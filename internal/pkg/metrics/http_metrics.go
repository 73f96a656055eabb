package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter conta todas as requisições HTTP
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram registra a duração das requisições em segundos
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category"},
	)

	registerOnce sync.Once
)

// HTTPMetrics coleta métricas HTTP de um serviço.
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics registra os coletores (uma única vez por processo).
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			StatusCodeCategoryCounter,
			AutomationTriggers,
			AutomationRuns,
			OrderTransitions,
		)
	})
	return &HTTPMetrics{ServiceName: serviceName}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	}
	return ""
}

// Middleware registra contagem, categoria e duração de cada requisição.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).Inc()
		if category := statusCategory(status); category != "" {
			StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, category).Inc()
		}
		RequestDurationHistogram.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).
			Observe(time.Since(start).Seconds())
	}
}

// Handler expõe o endpoint do Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
