package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/services/rides"
)

// schema holds the tables backing the store. Records are JSONB documents with
// the lookup columns copied out for indexing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ride_requests (
		id TEXT PRIMARY KEY,
		passenger_id TEXT NOT NULL,
		status TEXT NOT NULL,
		requested_at TIMESTAMPTZ NOT NULL,
		data JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ride_requests_passenger_idx ON ride_requests (passenger_id)`,
	`CREATE TABLE IF NOT EXISTS rides (
		id TEXT PRIMARY KEY,
		passenger_id TEXT NOT NULL,
		driver_id TEXT NOT NULL,
		status TEXT NOT NULL,
		requested_at TIMESTAMPTZ NOT NULL,
		data JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS rides_passenger_idx ON rides (passenger_id)`,
	`CREATE INDEX IF NOT EXISTS rides_driver_idx ON rides (driver_id)`,
	`CREATE TABLE IF NOT EXISTS active_pointer (
		passenger_id TEXT PRIMARY KEY,
		ride_id TEXT NOT NULL
	)`,
}

// PostgresStore keeps ride records in PostgreSQL
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgreSQL backed ride store
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ rides.RideStore = (*PostgresStore)(nil)

// EnsureSchema creates the ride tables when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply ride schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveRequest(ctx context.Context, req *models.RideRequest) error {
	segment := nrpkg.StartDatastoreSegment(ctx, "Postgres", "ride_requests", "INSERT")
	defer segment.End()

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal ride request: %w", err)
	}

	query := `
		INSERT INTO ride_requests (id, passenger_id, status, requested_at, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			passenger_id = EXCLUDED.passenger_id,
			status = EXCLUDED.status,
			requested_at = EXCLUDED.requested_at,
			data = EXCLUDED.data
	`
	if _, err := s.db.ExecContext(ctx, query, req.ID, req.PassengerID, string(req.Status), req.RequestedAt, string(data)); err != nil {
		logger.ErrorCtx(ctx, "Failed to save ride request",
			logger.String("request_id", req.ID),
			logger.Err(err))
		return apperrors.Storage("save ride request", err)
	}
	return nil
}

func (s *PostgresStore) GetRequest(ctx context.Context, id string) (*models.RideRequest, error) {
	var req models.RideRequest
	if err := s.getDocument(ctx, `SELECT data FROM ride_requests WHERE id = $1`, id, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *PostgresStore) UpdateRequest(ctx context.Context, req *models.RideRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal ride request: %w", err)
	}
	return s.update(ctx, `UPDATE ride_requests SET status = $2, data = $3 WHERE id = $1`,
		req.ID, string(req.Status), string(data))
}

func (s *PostgresStore) ListRequests(ctx context.Context, passengerID string) ([]models.RideRequest, error) {
	var docs [][]byte
	query := `SELECT data FROM ride_requests WHERE passenger_id = $1 ORDER BY requested_at DESC`
	if err := s.db.SelectContext(ctx, &docs, query, passengerID); err != nil {
		return nil, apperrors.Storage("list ride requests", err)
	}

	result := make([]models.RideRequest, 0, len(docs))
	for _, doc := range docs {
		var req models.RideRequest
		if err := json.Unmarshal(doc, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ride request: %w", err)
		}
		result = append(result, req)
	}
	return result, nil
}

func (s *PostgresStore) SaveRide(ctx context.Context, ride *models.Ride) error {
	segment := nrpkg.StartDatastoreSegment(ctx, "Postgres", "rides", "INSERT")
	defer segment.End()

	data, err := json.Marshal(ride)
	if err != nil {
		return fmt.Errorf("failed to marshal ride: %w", err)
	}

	query := `
		INSERT INTO rides (id, passenger_id, driver_id, status, requested_at, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			passenger_id = EXCLUDED.passenger_id,
			driver_id = EXCLUDED.driver_id,
			status = EXCLUDED.status,
			requested_at = EXCLUDED.requested_at,
			data = EXCLUDED.data
	`
	if _, err := s.db.ExecContext(ctx, query, ride.ID, ride.PassengerID, ride.DriverID, string(ride.Status), ride.RequestedAt, string(data)); err != nil {
		logger.ErrorCtx(ctx, "Failed to save ride",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
		return apperrors.Storage("save ride", err)
	}
	return nil
}

func (s *PostgresStore) GetRide(ctx context.Context, id string) (*models.Ride, error) {
	var ride models.Ride
	if err := s.getDocument(ctx, `SELECT data FROM rides WHERE id = $1`, id, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (s *PostgresStore) UpdateRide(ctx context.Context, ride *models.Ride) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return fmt.Errorf("failed to marshal ride: %w", err)
	}
	return s.update(ctx, `UPDATE rides SET status = $2, data = $3 WHERE id = $1`,
		ride.ID, string(ride.Status), string(data))
}

func (s *PostgresStore) ListRides(ctx context.Context, query rides.RideQuery) ([]models.Ride, error) {
	var docs [][]byte
	sqlQuery := `
		SELECT data FROM rides
		WHERE ($1 = '' OR passenger_id = $1) AND ($2 = '' OR driver_id = $2)
		ORDER BY requested_at DESC
	`
	if err := s.db.SelectContext(ctx, &docs, sqlQuery, query.PassengerID, query.DriverID); err != nil {
		return nil, apperrors.Storage("list rides", err)
	}

	result := make([]models.Ride, 0, len(docs))
	for _, doc := range docs {
		var ride models.Ride
		if err := json.Unmarshal(doc, &ride); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ride: %w", err)
		}
		result = append(result, ride)
	}
	return result, nil
}

func (s *PostgresStore) SetActive(ctx context.Context, passengerID, id string) error {
	query := `
		INSERT INTO active_pointer (passenger_id, ride_id) VALUES ($1, $2)
		ON CONFLICT (passenger_id) DO UPDATE SET ride_id = EXCLUDED.ride_id
	`
	if _, err := s.db.ExecContext(ctx, query, passengerID, id); err != nil {
		return apperrors.Storage("set active pointer", err)
	}
	return nil
}

func (s *PostgresStore) GetActive(ctx context.Context, passengerID string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT ride_id FROM active_pointer WHERE passenger_id = $1`, passengerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Storage("get active pointer", err)
	}
	return id, nil
}

func (s *PostgresStore) ClearActive(ctx context.Context, passengerID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM active_pointer WHERE passenger_id = $1`, passengerID); err != nil {
		return apperrors.Storage("clear active pointer", err)
	}
	return nil
}

func (s *PostgresStore) getDocument(ctx context.Context, query, id string, dest interface{}) error {
	var doc []byte
	err := s.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrRideNotFound
	}
	if err != nil {
		return apperrors.Storage("get ride record", err)
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return fmt.Errorf("failed to unmarshal ride record: %w", err)
	}
	return nil
}

func (s *PostgresStore) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to update ride record", logger.Err(err))
		return apperrors.Storage("update ride record", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("update ride record", err)
	}
	if affected == 0 {
		return apperrors.ErrRideNotFound
	}
	return nil
}
