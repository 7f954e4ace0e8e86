package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides/mocks"
)

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func TestRidesHandler_CreateRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, in models.CreateRideRequest) (*models.RideRequest, error) {
			assert.Equal(t, "p1", in.PassengerID)
			assert.Equal(t, models.VehicleSedan, in.VehicleClass)
			assert.Equal(t, 14.0693, in.Pickup.Coordinates.Latitude)
			return &models.RideRequest{ID: "r1", PassengerID: "p1", Status: models.RideStatusRequesting}, nil
		})

	c, rec := newContext(http.MethodPost, "/api/v1/rides/requests", `{
		"passenger_id": "p1",
		"vehicle_class": "sedan",
		"pickup": {"coordinates": {"latitude": 14.0693, "longitude": 121.3265}, "address": "SM City"},
		"destination": {"coordinates": {"latitude": 14.0662, "longitude": 121.3242}, "address": "City Hall"}
	}`)
	require.NoError(t, h.CreateRequest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"r1"`)
}

func TestRidesHandler_CreateRequest_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	c, rec := newContext(http.MethodPost, "/api/v1/rides/requests", `{"passenger_id":`)
	require.NoError(t, h.CreateRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tests := []struct {
		err    error
		status int
	}{
		{apperrors.ErrInvalidLocations, http.StatusBadRequest},
		{apperrors.ErrRideAlreadyActive, http.StatusConflict},
		{apperrors.Storage("save ride request", assert.AnError), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		uc.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil, tt.err)
		c, rec := newContext(http.MethodPost, "/api/v1/rides/requests", `{"passenger_id":"p1"}`)
		require.NoError(t, h.CreateRequest(c))
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}

func TestRidesHandler_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().Search(gomock.Any(), "r1").Return(&models.Ride{ID: "r1", DriverID: "d1", Status: models.RideStatusMatched}, nil)
	c, rec := newContext(http.MethodPost, "/api/v1/rides/requests/r1/search", "")
	require.NoError(t, h.Search(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"driver_id":"d1"`)

	uc.EXPECT().Search(gomock.Any(), "r2").Return(nil, apperrors.ErrNoDriversAvailable)
	c, rec = newContext(http.MethodPost, "/api/v1/rides/requests/r2/search", "")
	require.NoError(t, h.Search(withParam(c, "rideID", "r2")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRidesHandler_Advance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().Advance(gomock.Any(), "r1", models.RideStatusArriving).
		Return(models.TrackRide(&models.Ride{ID: "r1", Status: models.RideStatusArriving}), nil)
	c, rec := newContext(http.MethodPost, "/api/v1/rides/r1/advance", `{"status":"arriving"}`)
	require.NoError(t, h.Advance(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"ride"`)

	uc.EXPECT().Advance(gomock.Any(), "r1", models.RideStatusCompleted).Return(nil, apperrors.ErrInvalidTransition)
	c, rec = newContext(http.MethodPost, "/api/v1/rides/r1/advance", `{"status":"completed"}`)
	require.NoError(t, h.Advance(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/rides/r1/advance", `{}`)
	require.NoError(t, h.Advance(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRidesHandler_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().Cancel(gomock.Any(), "r1", "changed plans").
		Return(models.TrackRequest(&models.RideRequest{ID: "r1", Status: models.RideStatusCancelled}), nil)
	c, rec := newContext(http.MethodPost, "/api/v1/rides/r1/cancel", `{"reason":"changed plans"}`)
	require.NoError(t, h.Cancel(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	uc.EXPECT().Cancel(gomock.Any(), "r2", "").Return(nil, apperrors.ErrRideNotFound)
	c, rec = newContext(http.MethodPost, "/api/v1/rides/r2/cancel", "")
	require.NoError(t, h.Cancel(withParam(c, "rideID", "r2")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRidesHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().Get(gomock.Any(), "r1").
		Return(models.TrackRequest(&models.RideRequest{ID: "r1", Status: models.RideStatusSearching}), nil)
	c, rec := newContext(http.MethodGet, "/api/v1/rides/r1", "")
	require.NoError(t, h.Get(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"request"`)
	assert.Contains(t, rec.Body.String(), `"status":"searching"`)
}

func TestRidesHandler_ListForPassenger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().ListForPassenger(gomock.Any(), "p1", models.HistoryActive).Return([]models.Tracked{}, nil)
	c, rec := newContext(http.MethodGet, "/api/v1/passengers/p1/rides?filter=active", "")
	require.NoError(t, h.ListForPassenger(withParam(c, "passengerID", "p1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	uc.EXPECT().ListForPassenger(gomock.Any(), "p1", models.HistoryAll).Return([]models.Tracked{}, nil)
	c, rec = newContext(http.MethodGet, "/api/v1/passengers/p1/rides", "")
	require.NoError(t, h.ListForPassenger(withParam(c, "passengerID", "p1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/passengers/p1/rides?filter=recent", "")
	require.NoError(t, h.ListForPassenger(withParam(c, "passengerID", "p1")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRidesHandler_ListForDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().ListForDriver(gomock.Any(), "d1", models.HistoryTerminal).
		Return([]models.Ride{{ID: "r1", DriverID: "d1", Status: models.RideStatusCompleted}}, nil)
	c, rec := newContext(http.MethodGet, "/api/v1/drivers/d1/rides?filter=terminal", "")
	require.NoError(t, h.ListForDriver(withParam(c, "driverID", "d1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"r1"`)
}

func TestRidesHandler_TipAndRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockRideUC(ctrl)
	h := NewRidesHandler(uc)

	uc.EXPECT().AddTip(gomock.Any(), "r1", 20).Return(&models.Ride{ID: "r1"}, nil)
	c, rec := newContext(http.MethodPost, "/api/v1/rides/r1/tip", `{"amount":20}`)
	require.NoError(t, h.AddTip(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	uc.EXPECT().Rate(gomock.Any(), "r1", models.RatingByPassenger, 5).Return(nil, apperrors.ErrAlreadyRated)
	c, rec = newContext(http.MethodPost, "/api/v1/rides/r1/rating", `{"by":"passenger","stars":5}`)
	require.NoError(t, h.Rate(withParam(c, "rideID", "r1")))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
