package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/services/drivers"
	httpHandler "github.com/tara-ride/dispatch/services/drivers/handler/http"
)

// Handler groups the driver directory transports
type Handler struct {
	driversHTTP *httpHandler.DriversHandler
}

// NewHandler creates the drivers handler
func NewHandler(driverUC drivers.DriverUC) *Handler {
	return &Handler{driversHTTP: httpHandler.NewDriversHandler(driverUC)}
}

// RegisterRoutes mounts the internal directory routes. auth guards every
// route since only the driver app backend may change the directory.
func (h *Handler) RegisterRoutes(api *echo.Group, auth echo.MiddlewareFunc) {
	api.POST("/drivers", h.driversHTTP.Register, auth)
	api.GET("/drivers/:driverID", h.driversHTTP.Get, auth)
	api.PUT("/drivers/:driverID/online", h.driversHTTP.SetOnline, auth)
	api.PUT("/drivers/:driverID/location", h.driversHTTP.UpdateLocation, auth)
}
