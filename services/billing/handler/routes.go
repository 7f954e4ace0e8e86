package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/services/billing"
	httpHandler "github.com/tara-ride/dispatch/services/billing/handler/http"
)

// Handler groups the billing transports
type Handler struct {
	earningsHTTP *httpHandler.EarningsHandler
}

// NewHandler creates the billing handler
func NewHandler(earningsUC billing.EarningsUC) *Handler {
	return &Handler{earningsHTTP: httpHandler.NewEarningsHandler(earningsUC)}
}

// RegisterRoutes mounts the billing routes on api
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/drivers/:driverID/earnings", h.earningsHTTP.DriverEarnings)
}
