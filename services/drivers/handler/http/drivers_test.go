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
	"github.com/tara-ride/dispatch/services/drivers/mocks"
)

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDriversHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockDriverUC(ctrl)
	h := NewDriversHandler(uc)

	uc.EXPECT().RegisterDriver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, reg models.DriverRegistration) (*models.Driver, error) {
			assert.Equal(t, models.VehicleSedan, reg.VehicleClass)
			return &models.Driver{ID: "d1", Name: reg.Name, VehicleClass: reg.VehicleClass}, nil
		})

	c, rec := newContext(http.MethodPost, "/api/v1/drivers",
		`{"id":"d1","name":"Juan","vehicle_class":"sedan","location":{"latitude":14.07,"longitude":121.32},"online":true}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"d1"`)
}

func TestDriversHandler_Register_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockDriverUC(ctrl)
	h := NewDriversHandler(uc)

	c, rec := newContext(http.MethodPost, "/api/v1/drivers", `{"vehicle_class":"sedan"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc.EXPECT().RegisterDriver(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrInvalidVehicleClass)
	c, rec = newContext(http.MethodPost, "/api/v1/drivers", `{"name":"Juan","vehicle_class":"jeepney"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDriversHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockDriverUC(ctrl)
	h := NewDriversHandler(uc)

	uc.EXPECT().GetDriver(gomock.Any(), "missing").Return(nil, apperrors.ErrDriverNotFound)

	c, rec := newContext(http.MethodGet, "/api/v1/drivers/missing", "")
	c.SetParamNames("driverID")
	c.SetParamValues("missing")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriversHandler_SetOnline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockDriverUC(ctrl)
	h := NewDriversHandler(uc)

	uc.EXPECT().SetOnline(gomock.Any(), "d1", true).Return(&models.Driver{ID: "d1", Online: true}, nil)

	c, rec := newContext(http.MethodPut, "/api/v1/drivers/d1/online", `{"online":true}`)
	c.SetParamNames("driverID")
	c.SetParamValues("d1")
	require.NoError(t, h.SetOnline(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"online":true`)
}

func TestDriversHandler_UpdateLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := mocks.NewMockDriverUC(ctrl)
	h := NewDriversHandler(uc)

	loc := models.Coordinates{Latitude: 14.0662, Longitude: 121.3242}
	uc.EXPECT().UpdateLocation(gomock.Any(), "d1", loc).Return(nil, apperrors.Storage("update driver location", assert.AnError))

	c, rec := newContext(http.MethodPut, "/api/v1/drivers/d1/location",
		`{"location":{"latitude":14.0662,"longitude":121.3242}}`)
	c.SetParamNames("driverID")
	c.SetParamValues("d1")
	require.NoError(t, h.UpdateLocation(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
