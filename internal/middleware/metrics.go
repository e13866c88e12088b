package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/partners-api/internal/metrics"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latencies in Prometheus.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Instrument labels by the route template (c.Path()), never the raw
// URI, to keep label cardinality bounded. Unmatched routes share one label.
func (mm *MetricsMiddleware) Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}

			mm.metrics.RequestsTotal.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Inc()
			mm.metrics.RequestDuration.
				WithLabelValues(c.Request().Method, route).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
