package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/services/rides"
	httpHandler "github.com/tara-ride/dispatch/services/rides/handler/http"
)

// Handler groups the rides transports
type Handler struct {
	ridesHTTP *httpHandler.RidesHandler
}

// NewHandler creates the rides handler
func NewHandler(rideUC rides.RideUC) *Handler {
	return &Handler{ridesHTTP: httpHandler.NewRidesHandler(rideUC)}
}

// RegisterRoutes mounts the passenger and driver facing ride routes on api
func (h *Handler) RegisterRoutes(api *echo.Group) {
	requests := api.Group("/rides/requests")
	requests.POST("", h.ridesHTTP.CreateRequest)
	requests.POST("/:rideID/search", h.ridesHTTP.Search)

	ridesGroup := api.Group("/rides")
	ridesGroup.GET("/:rideID", h.ridesHTTP.Get)
	ridesGroup.POST("/:rideID/advance", h.ridesHTTP.Advance)
	ridesGroup.POST("/:rideID/cancel", h.ridesHTTP.Cancel)
	ridesGroup.POST("/:rideID/tip", h.ridesHTTP.AddTip)
	ridesGroup.POST("/:rideID/rating", h.ridesHTTP.Rate)

	api.GET("/passengers/:passengerID/rides", h.ridesHTTP.ListForPassenger)
	api.GET("/drivers/:driverID/rides", h.ridesHTTP.ListForDriver)
}
