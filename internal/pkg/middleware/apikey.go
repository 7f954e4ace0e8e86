package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/utils"
)

const APIKeyHeader = "X-API-Key"

// ValidateAPIKey guards internal routes. keys maps a calling service to its
// key; a request passes when it presents the key of any allowed service.
// Services without a configured key never match.
func ValidateAPIKey(keys map[string]string, allowedServices ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(APIKeyHeader)
			if apiKey == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			for _, service := range allowedServices {
				expected := keys[service]
				if expected != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) == 1 {
					c.Set("calling_service", service)
					return next(c)
				}
			}

			logger.WarnCtx(c.Request().Context(), "Rejected request with invalid API key",
				logger.String("path", c.Path()),
				logger.String("client_ip", c.RealIP()))
			return utils.ErrorResponseHandler(c, http.StatusUnauthorized, "Invalid API key")
		}
	}
}
