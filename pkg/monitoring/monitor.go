package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuestionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_questions_total",
			Help: "Total number of questions graded, by question type and strategy",
		},
		[]string{"question_type", "strategy"},
	)

	GradingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grading_duration_seconds",
			Help:    "Duration of per-question grading",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 30},
		},
		[]string{"question_type"},
	)

	SandboxFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_sandbox_failures_total",
			Help: "Code execution requests that failed before producing results",
		},
		[]string{"language"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuestionsGraded)
	prometheus.MustRegister(GradingDuration)
	prometheus.MustRegister(SandboxFailures)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
