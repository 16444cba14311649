package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/azihell/properties-dashboard/utils"
)

// RequestObserver receives one observation per HTTP request.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, d time.Duration)
}

// Recover turns panics into a 500 envelope.
func Recover(logger *utils.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					logger.Error("[api] PANIC: %v\n%s", err, debug.Stack())
					_ = DataResponse(c, http.StatusInternalServerError, "Something went wrong")
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging logs every request and feeds obs when it is not nil.
func RequestLogging(logger *utils.Logger, obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			logger.Request(req.Method, req.RequestURI, res.Status, int(res.Size), latency)
			if obs != nil {
				route := c.Path()
				if route == "" {
					route = "unmatched"
				}
				obs.ObserveRequest(route, req.Method, res.Status, latency)
			}
			return nil
		}
	}
}
