package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/tara-ride/dispatch/internal/pkg/constants"
	"github.com/tara-ride/dispatch/internal/pkg/database"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/services/rides"
)

// RedisStore keeps ride records as JSON strings with per-owner index sets
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis backed ride store
func NewRedisStore(redisClient *database.RedisClient) *RedisStore {
	return &RedisStore{client: redisClient.Client}
}

var _ rides.RideStore = (*RedisStore)(nil)

func (s *RedisStore) SaveRequest(ctx context.Context, req *models.RideRequest) error {
	segment := nrpkg.StartDatastoreSegment(ctx, "Redis", "ride_requests", "SET")
	defer segment.End()

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal ride request: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(constants.KeyRideRequest, req.ID), data, 0)
		pipe.SAdd(ctx, fmt.Sprintf(constants.KeyPassengerRequests, req.PassengerID), req.ID)
		return nil
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to save ride request",
			logger.String("request_id", req.ID),
			logger.Err(err))
		return apperrors.Storage("save ride request", err)
	}
	return nil
}

func (s *RedisStore) GetRequest(ctx context.Context, id string) (*models.RideRequest, error) {
	var req models.RideRequest
	if err := s.get(ctx, fmt.Sprintf(constants.KeyRideRequest, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RedisStore) UpdateRequest(ctx context.Context, req *models.RideRequest) error {
	return s.replace(ctx, fmt.Sprintf(constants.KeyRideRequest, req.ID), req)
}

func (s *RedisStore) ListRequests(ctx context.Context, passengerID string) ([]models.RideRequest, error) {
	values, err := s.listByIndex(ctx, fmt.Sprintf(constants.KeyPassengerRequests, passengerID), constants.KeyRideRequest)
	if err != nil {
		return nil, err
	}

	result := make([]models.RideRequest, 0, len(values))
	for _, raw := range values {
		var req models.RideRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ride request: %w", err)
		}
		result = append(result, req)
	}
	return result, nil
}

func (s *RedisStore) SaveRide(ctx context.Context, ride *models.Ride) error {
	segment := nrpkg.StartDatastoreSegment(ctx, "Redis", "rides", "SET")
	defer segment.End()

	data, err := json.Marshal(ride)
	if err != nil {
		return fmt.Errorf("failed to marshal ride: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(constants.KeyRide, ride.ID), data, 0)
		pipe.SAdd(ctx, fmt.Sprintf(constants.KeyPassengerRides, ride.PassengerID), ride.ID)
		pipe.SAdd(ctx, fmt.Sprintf(constants.KeyDriverRides, ride.DriverID), ride.ID)
		return nil
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to save ride",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
		return apperrors.Storage("save ride", err)
	}
	return nil
}

func (s *RedisStore) GetRide(ctx context.Context, id string) (*models.Ride, error) {
	var ride models.Ride
	if err := s.get(ctx, fmt.Sprintf(constants.KeyRide, id), &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (s *RedisStore) UpdateRide(ctx context.Context, ride *models.Ride) error {
	return s.replace(ctx, fmt.Sprintf(constants.KeyRide, ride.ID), ride)
}

// ListRides uses the passenger index when set, otherwise the driver index
func (s *RedisStore) ListRides(ctx context.Context, query rides.RideQuery) ([]models.Ride, error) {
	var index string
	switch {
	case query.PassengerID != "":
		index = fmt.Sprintf(constants.KeyPassengerRides, query.PassengerID)
	case query.DriverID != "":
		index = fmt.Sprintf(constants.KeyDriverRides, query.DriverID)
	default:
		return []models.Ride{}, nil
	}

	values, err := s.listByIndex(ctx, index, constants.KeyRide)
	if err != nil {
		return nil, err
	}

	result := make([]models.Ride, 0, len(values))
	for _, raw := range values {
		var ride models.Ride
		if err := json.Unmarshal([]byte(raw), &ride); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ride: %w", err)
		}
		if query.DriverID != "" && ride.DriverID != query.DriverID {
			continue
		}
		result = append(result, ride)
	}
	return result, nil
}

func (s *RedisStore) SetActive(ctx context.Context, passengerID, id string) error {
	if err := s.client.Set(ctx, fmt.Sprintf(constants.KeyActivePointer, passengerID), id, 0).Err(); err != nil {
		return apperrors.Storage("set active pointer", err)
	}
	return nil
}

func (s *RedisStore) GetActive(ctx context.Context, passengerID string) (string, error) {
	id, err := s.client.Get(ctx, fmt.Sprintf(constants.KeyActivePointer, passengerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Storage("get active pointer", err)
	}
	return id, nil
}

func (s *RedisStore) ClearActive(ctx context.Context, passengerID string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(constants.KeyActivePointer, passengerID)).Err(); err != nil {
		return apperrors.Storage("clear active pointer", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return apperrors.ErrRideNotFound
	}
	if err != nil {
		return apperrors.Storage("get "+key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// replace overwrites an existing record only
func (s *RedisStore) replace(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	ok, err := s.client.SetXX(ctx, key, data, 0).Result()
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to update ride record",
			logger.String("key", key),
			logger.Err(err))
		return apperrors.Storage("update "+key, err)
	}
	if !ok {
		return apperrors.ErrRideNotFound
	}
	return nil
}

func (s *RedisStore) listByIndex(ctx context.Context, index, keyFormat string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return nil, apperrors.Storage("list "+index, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(keyFormat, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.Storage("list "+index, err)
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		if raw, ok := v.(string); ok {
			result = append(result, raw)
		}
	}
	return result, nil
}
