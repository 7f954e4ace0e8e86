package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/rides"
)

// RidesHandler handles HTTP requests for ride requests and rides
type RidesHandler struct {
	rideUC rides.RideUC
}

// NewRidesHandler creates a new rides HTTP handler
func NewRidesHandler(rideUC rides.RideUC) *RidesHandler {
	return &RidesHandler{rideUC: rideUC}
}

// CreateRequest prices a trip and opens a ride request for the passenger
func (h *RidesHandler) CreateRequest(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.CreateRequest")

	var req models.CreateRideRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	created, err := h.rideUC.CreateRequest(c.Request().Context(), req)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}

	nrpkg.AddTransactionAttribute(txn, "ride.id", created.ID)
	nrpkg.AddTransactionAttribute(txn, "passenger.id", created.PassengerID)
	return utils.SuccessResponse(c, http.StatusCreated, "Ride request created", created)
}

// Search matches a request to the nearest available driver
func (h *RidesHandler) Search(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.Search")

	requestID := c.Param("rideID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Ride request ID is required")
	}

	ride, err := h.rideUC.Search(c.Request().Context(), requestID)
	if err != nil {
		logger.Info("Search ended without a ride",
			logger.String("request_id", requestID),
			logger.Err(err))
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}

	nrpkg.AddTransactionAttribute(txn, "ride.id", ride.ID)
	nrpkg.AddTransactionAttribute(txn, "driver.id", ride.DriverID)
	return utils.SuccessResponse(c, http.StatusOK, "Driver matched", ride)
}

// Advance moves a ride to the next status
func (h *RidesHandler) Advance(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.Advance")

	rideID := c.Param("rideID")
	if rideID == "" {
		return utils.BadRequestResponse(c, "Ride ID is required")
	}

	var req models.AdvanceRideRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.Status == "" {
		return utils.BadRequestResponse(c, "Target status is required")
	}

	tracked, err := h.rideUC.Advance(c.Request().Context(), rideID, req.Status)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride status updated", tracked)
}

// Cancel cancels a ride request or ride
func (h *RidesHandler) Cancel(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.Cancel")

	rideID := c.Param("rideID")
	if rideID == "" {
		return utils.BadRequestResponse(c, "Ride ID is required")
	}

	var req models.CancelRideRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			nrpkg.NoticeTransactionError(txn, err)
			return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		}
	}

	tracked, err := h.rideUC.Cancel(c.Request().Context(), rideID, req.Reason)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride cancelled", tracked)
}

// Get returns a ride, or the request when it has not been matched yet
func (h *RidesHandler) Get(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.Get")

	tracked, err := h.rideUC.Get(c.Request().Context(), c.Param("rideID"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride retrieved", tracked)
}

// ListForPassenger returns a passenger's ride history
func (h *RidesHandler) ListForPassenger(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.ListForPassenger")

	filter, ok := historyFilter(c)
	if !ok {
		return utils.BadRequestResponse(c, "filter must be one of all, active, terminal")
	}

	list, err := h.rideUC.ListForPassenger(c.Request().Context(), c.Param("passengerID"), filter)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Rides retrieved", list)
}

// ListForDriver returns the rides assigned to a driver
func (h *RidesHandler) ListForDriver(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.ListForDriver")

	filter, ok := historyFilter(c)
	if !ok {
		return utils.BadRequestResponse(c, "filter must be one of all, active, terminal")
	}

	list, err := h.rideUC.ListForDriver(c.Request().Context(), c.Param("driverID"), filter)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Rides retrieved", list)
}

// AddTip adds a tip to a completed ride
func (h *RidesHandler) AddTip(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.AddTip")

	var req models.TipRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	ride, err := h.rideUC.AddTip(c.Request().Context(), c.Param("rideID"), req.Amount)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Tip added", ride)
}

// Rate records a rating for a completed ride
func (h *RidesHandler) Rate(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.Rate")

	var req models.RatingRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	ride, err := h.rideUC.Rate(c.Request().Context(), c.Param("rideID"), req.By, req.Stars)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Rating recorded", ride)
}

func historyFilter(c echo.Context) (models.HistoryFilter, bool) {
	switch filter := models.HistoryFilter(c.QueryParam("filter")); filter {
	case "":
		return models.HistoryAll, true
	case models.HistoryAll, models.HistoryActive, models.HistoryTerminal:
		return filter, true
	default:
		return "", false
	}
}
