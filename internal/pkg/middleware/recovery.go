package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/utils"
)

// PanicRecovery turns a panicking handler into a 500 response. The panic is
// logged with its stack and reported on the New Relic transaction.
func PanicRecovery(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	if zapLogger == nil {
		zapLogger = logger.GetGlobalLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				req := c.Request()
				stack := string(debug.Stack())
				txn := newrelic.FromContext(req.Context())
				if txn != nil {
					txn.NoticeError(newrelic.Error{
						Message: fmt.Sprintf("panic: %v", r),
						Class:   "PanicError",
						Attributes: map[string]interface{}{
							"request.method": req.Method,
							"request.path":   req.URL.Path,
						},
					})
				}

				zapLogger.WithNewRelicContext(txn).Error("Panic recovered",
					logger.Any("panic", r),
					logger.String("method", req.Method),
					logger.String("path", req.URL.Path),
					logger.String("request_id", requestID(c)),
					logger.String("stack_trace", stack))

				if !c.Response().Committed {
					err = utils.ErrorResponseHandler(c, http.StatusInternalServerError, "Internal server error")
				}
			}()

			return next(c)
		}
	}
}
