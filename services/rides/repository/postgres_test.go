package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock := setupMockDB(t)

	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRequest(t *testing.T) {
	store, mock := setupMockDB(t)
	req := sampleRequest("r1", "p1")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ride_requests")).
		WithArgs("r1", "p1", "requesting", req.RequestedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.SaveRequest(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRequest_Error(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ride_requests")).
		WillReturnError(assert.AnError)

	err := store.SaveRequest(context.Background(), sampleRequest("r1", "p1"))
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestPostgresStore_GetRequest(t *testing.T) {
	store, mock := setupMockDB(t)
	doc, err := json.Marshal(sampleRequest("r1", "p1"))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM ride_requests WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(doc))

	got, err := store.GetRequest(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PassengerID)
	assert.Equal(t, 56, got.EstimatedFare.Total)
}

func TestPostgresStore_GetRequest_NotFound(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM ride_requests")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.GetRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestPostgresStore_UpdateRide_NoRows(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
		WithArgs("missing", "arriving", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ride := sampleRide("missing", "p1", "d1")
	ride.Status = models.RideStatusArriving
	err := store.UpdateRide(context.Background(), ride)
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAndListRides(t *testing.T) {
	store, mock := setupMockDB(t)
	ride := sampleRide("r1", "p1", "d1")
	doc, err := json.Marshal(ride)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rides")).
		WithArgs("r1", "p1", "d1", "matched", ride.RequestedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM rides")).
		WithArgs("", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(doc))

	require.NoError(t, store.SaveRide(context.Background(), ride))

	list, err := store.ListRides(context.Background(), rides.RideQuery{DriverID: "d1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ActivePointer(t *testing.T) {
	store, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO active_pointer")).
		WithArgs("p1", "r1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ride_id FROM active_pointer")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"ride_id"}).AddRow("r1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM active_pointer")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ride_id FROM active_pointer")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"ride_id"}))

	require.NoError(t, store.SetActive(ctx, "p1", "r1"))
	id, err := store.GetActive(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "r1", id)

	require.NoError(t, store.ClearActive(ctx, "p1"))
	id, err = store.GetActive(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
