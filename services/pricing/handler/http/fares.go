package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/pricing"
)

// FaresHandler serves fare quotes
type FaresHandler struct {
	engine pricing.FareEngine
}

// NewFaresHandler creates a new fares HTTP handler
func NewFaresHandler(engine pricing.FareEngine) *FaresHandler {
	return &FaresHandler{engine: engine}
}

// Estimate quotes a trip for every vehicle class without creating a request
func (h *FaresHandler) Estimate(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Fares.Estimate")

	pickup, err := coordinatesFromQuery(c, "pickup_lat", "pickup_lng")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid pickup coordinates")
	}
	destination, err := coordinatesFromQuery(c, "dest_lat", "dest_lng")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid destination coordinates")
	}
	if pickup.Equal(destination) {
		return utils.BadRequestResponse(c, "Pickup and destination must differ")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Fare estimate", h.engine.Quote(pickup, destination))
}

func coordinatesFromQuery(c echo.Context, latKey, lngKey string) (models.Coordinates, error) {
	lat, err := strconv.ParseFloat(c.QueryParam(latKey), 64)
	if err != nil {
		return models.Coordinates{}, err
	}
	lng, err := strconv.ParseFloat(c.QueryParam(lngKey), 64)
	if err != nil {
		return models.Coordinates{}, err
	}
	coords := models.Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return models.Coordinates{}, strconv.ErrRange
	}
	return coords, nil
}
