package middleware

import (
	"strconv"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Observe attaches a request scoped logger to the context and records
// request count and latency per route.
func Observe(log *logger.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqLog := log.With(
				logger.StringField("method", req.Method),
				logger.StringField("path", req.URL.Path),
				logger.StringField("remote_ip", c.RealIP()),
			)
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			elapsed := time.Since(start)
			m.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

			reqLog.Debug("Request handled",
				logger.IntField("status", status),
				logger.DurationField("elapsed", elapsed),
			)
			return nil
		}
	}
}
