package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. Health probes are skipped to
// keep the log readable under frequent polling.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			if req.URL.Path == "/health" {
				return err
			}

			res := c.Response()
			log.Printf("%s %s %d %dB %s %s",
				req.Method,
				req.RequestURI,
				res.Status,
				res.Size,
				time.Since(start).Round(time.Millisecond),
				c.RealIP(),
			)
			return err
		}
	}
}
