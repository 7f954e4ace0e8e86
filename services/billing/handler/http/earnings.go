package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/billing"
)

// EarningsHandler serves driver earnings
type EarningsHandler struct {
	earningsUC billing.EarningsUC
}

// NewEarningsHandler creates a new earnings HTTP handler
func NewEarningsHandler(earningsUC billing.EarningsUC) *EarningsHandler {
	return &EarningsHandler{earningsUC: earningsUC}
}

// DriverEarnings returns today's, this week's, this month's and lifetime earnings
func (h *EarningsHandler) DriverEarnings(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Billing.DriverEarnings")

	earnings, err := h.earningsUC.DriverEarnings(c.Request().Context(), c.Param("driverID"))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver earnings", earnings)
}
