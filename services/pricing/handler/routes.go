package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/services/pricing"
	httpHandler "github.com/tara-ride/dispatch/services/pricing/handler/http"
)

// Handler groups the pricing transports
type Handler struct {
	faresHTTP *httpHandler.FaresHandler
}

// NewHandler creates the pricing handler
func NewHandler(engine pricing.FareEngine) *Handler {
	return &Handler{faresHTTP: httpHandler.NewFaresHandler(engine)}
}

// RegisterRoutes mounts the fare quote route on api
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/fares/estimate", h.faresHTTP.Estimate)
}
