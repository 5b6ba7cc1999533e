package middleware

import (
  "strconv"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
  httpRequestsTotal = promauto.NewCounterVec(
    prometheus.CounterOpts{
      Name: "http_requests_total",
      Help: "Count of HTTP requests by method, route and status.",
    },
    []string{"method", "route", "status"},
  )
  httpRequestDuration = promauto.NewHistogramVec(
    prometheus.HistogramOpts{
      Name:    "http_request_duration_seconds",
      Help:    "HTTP request latency by method and route.",
      Buckets: prometheus.DefBuckets,
    },
    []string{"method", "route"},
  )
)

func Metrics() gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()

    route := c.FullPath()
    if route == "" {
      route = "unmatched"
    }
    httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
    httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
  }
}
