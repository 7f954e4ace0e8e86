package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/drivers"
)

// DriversHandler handles HTTP requests for the driver directory
type DriversHandler struct {
	driverUC drivers.DriverUC
}

// NewDriversHandler creates a new drivers HTTP handler
func NewDriversHandler(driverUC drivers.DriverUC) *DriversHandler {
	return &DriversHandler{driverUC: driverUC}
}

// Register adds a driver to the directory
func (h *DriversHandler) Register(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Drivers.Register")

	var req models.DriverRegistration
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.Name == "" {
		return utils.BadRequestResponse(c, "Driver name is required")
	}

	driver, err := h.driverUC.RegisterDriver(c.Request().Context(), req)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}

	nrpkg.AddTransactionAttribute(txn, "driver.id", driver.ID)
	return utils.SuccessResponse(c, http.StatusCreated, "Driver registered", driver)
}

// Get returns a driver by id
func (h *DriversHandler) Get(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Drivers.Get")

	driverID := c.Param("driverID")
	if driverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	driver, err := h.driverUC.GetDriver(c.Request().Context(), driverID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver retrieved", driver)
}

// SetOnline toggles whether the driver is offered new rides
func (h *DriversHandler) SetOnline(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Drivers.SetOnline")

	driverID := c.Param("driverID")
	if driverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	var req models.DriverOnlineRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driver, err := h.driverUC.SetOnline(c.Request().Context(), driverID, req.Online)
	if err != nil {
		logger.Warn("Failed to change driver availability",
			logger.String("driver_id", driverID),
			logger.Err(err))
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver availability updated", driver)
}

// UpdateLocation records the driver's latest position
func (h *DriversHandler) UpdateLocation(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Drivers.UpdateLocation")

	driverID := c.Param("driverID")
	if driverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	var req models.DriverLocationRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driver, err := h.driverUC.UpdateLocation(c.Request().Context(), driverID, req.Location)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver location updated", driver)
}
