package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/tara-ride/dispatch/internal/pkg/constants"
	"github.com/tara-ride/dispatch/internal/pkg/database"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/logger"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	nrpkg "github.com/tara-ride/dispatch/internal/pkg/newrelic"
	"github.com/tara-ride/dispatch/internal/utils"
	"github.com/tara-ride/dispatch/services/drivers"
)

// registerScript writes the driver hash and then, for a new driver, its place
// in registration order. KEYS: hash, order set, counter. ARGV: driver id
// followed by field/value pairs.
var registerScript = redis.NewScript(`
for i = 2, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('HSETNX', KEYS[1], 'reserved', '0')
redis.call('HSETNX', KEYS[1], 'rating', '0')
redis.call('HSETNX', KEYS[1], 'rating_count', '0')
redis.call('HSETNX', KEYS[1], 'total_trips', '0')
if redis.call('ZSCORE', KEYS[2], ARGV[1]) == false then
	local seq = redis.call('INCR', KEYS[3])
	redis.call('ZADD', KEYS[2], seq, ARGV[1])
end
return 1
`)

// reserveScript flips the reserved flag only for an online, unreserved driver.
// Returns -1 for an unknown driver, 0 when the driver cannot be taken, 1 on success.
var reserveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if redis.call('HGET', KEYS[1], 'online') ~= '1' then
	return 0
end
if redis.call('HGET', KEYS[1], 'reserved') == '1' then
	return 0
end
redis.call('HSET', KEYS[1], 'reserved', '1')
return 1
`)

// updateScript sets hash fields of an existing driver. Returns -1 for an unknown driver.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
for i = 1, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
return 1
`)

var recordTripScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], 'total_trips', 1)
`)

var addRatingScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local rating = tonumber(redis.call('HGET', KEYS[1], 'rating') or '0')
local count = tonumber(redis.call('HGET', KEYS[1], 'rating_count') or '0')
local stars = tonumber(ARGV[1])
local avg = (rating * count + stars) / (count + 1)
redis.call('HSET', KEYS[1], 'rating', tostring(avg))
redis.call('HSET', KEYS[1], 'rating_count', tostring(count + 1))
return 1
`)

// RedisDirectory stores drivers as Redis hashes with a sorted set keeping
// registration order
type RedisDirectory struct {
	client *redis.Client
}

// NewRedisDirectory creates a Redis backed driver directory
func NewRedisDirectory(redisClient *database.RedisClient) *RedisDirectory {
	return &RedisDirectory{client: redisClient.Client}
}

var _ drivers.Directory = (*RedisDirectory)(nil)

func driverKey(id string) string {
	return fmt.Sprintf(constants.KeyDriver, id)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Register adds a driver or refreshes the profile of a known one
func (r *RedisDirectory) Register(ctx context.Context, reg models.DriverRegistration) (*models.Driver, error) {
	segment := nrpkg.StartDatastoreSegment(ctx, "Redis", "drivers", "EVALSHA")
	defer segment.End()

	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	key := driverKey(reg.ID)
	now := models.Now()

	err := registerScript.Run(ctx, r.client,
		[]string{key, constants.KeyDriverOrder, constants.KeyDriverSeq},
		reg.ID,
		constants.FieldName, reg.Name,
		constants.FieldVehicleClass, string(reg.VehicleClass),
		constants.FieldPlateNumber, reg.PlateNumber,
		constants.FieldOnline, boolField(reg.Online),
		constants.FieldLatitude, strconv.FormatFloat(reg.Location.Latitude, 'f', -1, 64),
		constants.FieldLongitude, strconv.FormatFloat(reg.Location.Longitude, 'f', -1, 64),
		constants.FieldGeohash, utils.EncodeLocation(reg.Location, constants.GeohashPrecision),
		constants.FieldUpdatedAt, now.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to register driver",
			logger.String("driver_id", reg.ID),
			logger.Err(err))
		return nil, apperrors.Storage("register driver", err)
	}

	return r.Get(ctx, reg.ID)
}

func (r *RedisDirectory) Get(ctx context.Context, driverID string) (*models.Driver, error) {
	values, err := r.client.HGetAll(ctx, driverKey(driverID)).Result()
	if err != nil {
		return nil, apperrors.Storage("get driver", err)
	}
	if len(values) == 0 {
		return nil, apperrors.ErrDriverNotFound
	}
	driver := driverFromHash(driverID, values)
	return &driver, nil
}

// ListOnline returns online, unreserved drivers of the class in registration order
func (r *RedisDirectory) ListOnline(ctx context.Context, class models.VehicleClass) ([]models.Driver, error) {
	segment := nrpkg.StartDatastoreSegment(ctx, "Redis", "drivers", "HGETALL")
	defer segment.End()

	ids, err := r.client.ZRange(ctx, constants.KeyDriverOrder, 0, -1).Result()
	if err != nil {
		return nil, apperrors.Storage("list drivers", err)
	}
	if len(ids) == 0 {
		return []models.Driver{}, nil
	}

	cmds := make([]*redis.StringStringMapCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, driverKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Storage("list drivers", err)
	}

	result := make([]models.Driver, 0, len(ids))
	for i, cmd := range cmds {
		values := cmd.Val()
		if len(values) == 0 {
			continue
		}
		driver := driverFromHash(ids[i], values)
		if driver.Online && !driver.Reserved && driver.VehicleClass == class {
			result = append(result, driver)
		}
	}
	return result, nil
}

// Reserve atomically claims an online, unreserved driver
func (r *RedisDirectory) Reserve(ctx context.Context, driverID string) (bool, error) {
	res, err := reserveScript.Run(ctx, r.client, []string{driverKey(driverID)}).Int()
	if err != nil {
		return false, apperrors.Storage("reserve driver", err)
	}
	switch res {
	case -1:
		return false, apperrors.ErrDriverNotFound
	case 1:
		return true, nil
	default:
		return false, nil
	}
}

func (r *RedisDirectory) Release(ctx context.Context, driverID string) error {
	return r.set(ctx, "release driver", driverID, constants.FieldReserved, "0")
}

func (r *RedisDirectory) UpdateLocation(ctx context.Context, driverID string, location models.Coordinates) error {
	return r.set(ctx, "update driver location", driverID,
		constants.FieldLatitude, strconv.FormatFloat(location.Latitude, 'f', -1, 64),
		constants.FieldLongitude, strconv.FormatFloat(location.Longitude, 'f', -1, 64),
		constants.FieldGeohash, utils.EncodeLocation(location, constants.GeohashPrecision),
		constants.FieldUpdatedAt, models.Now().Format(time.RFC3339Nano),
	)
}

func (r *RedisDirectory) SetOnline(ctx context.Context, driverID string, online bool) error {
	return r.set(ctx, "set driver online", driverID,
		constants.FieldOnline, boolField(online),
		constants.FieldUpdatedAt, models.Now().Format(time.RFC3339Nano),
	)
}

func (r *RedisDirectory) RecordTrip(ctx context.Context, driverID string) error {
	res, err := recordTripScript.Run(ctx, r.client, []string{driverKey(driverID)}).Int()
	if err != nil {
		return apperrors.Storage("record driver trip", err)
	}
	if res == -1 {
		return apperrors.ErrDriverNotFound
	}
	return nil
}

// AddRating folds a new star rating into the running average stored on the hash
func (r *RedisDirectory) AddRating(ctx context.Context, driverID string, stars int) error {
	res, err := addRatingScript.Run(ctx, r.client, []string{driverKey(driverID)}, stars).Int()
	if err != nil {
		return apperrors.Storage("add driver rating", err)
	}
	if res == -1 {
		return apperrors.ErrDriverNotFound
	}
	return nil
}

func (r *RedisDirectory) set(ctx context.Context, op, driverID string, fieldValues ...interface{}) error {
	res, err := updateScript.Run(ctx, r.client, []string{driverKey(driverID)}, fieldValues...).Int()
	if err != nil {
		logger.ErrorCtx(ctx, "Driver directory write failed",
			logger.String("op", op),
			logger.String("driver_id", driverID),
			logger.Err(err))
		return apperrors.Storage(op, err)
	}
	if res == -1 {
		return apperrors.ErrDriverNotFound
	}
	return nil
}

func driverFromHash(id string, values map[string]string) models.Driver {
	lat, _ := strconv.ParseFloat(values[constants.FieldLatitude], 64)
	lng, _ := strconv.ParseFloat(values[constants.FieldLongitude], 64)
	rating, _ := strconv.ParseFloat(values[constants.FieldRating], 64)
	ratingCount, _ := strconv.Atoi(values[constants.FieldRatingCount])
	totalTrips, _ := strconv.Atoi(values[constants.FieldTotalTrips])
	updatedAt, _ := time.Parse(time.RFC3339Nano, values[constants.FieldUpdatedAt])

	return models.Driver{
		ID:           id,
		Name:         values[constants.FieldName],
		VehicleClass: models.VehicleClass(values[constants.FieldVehicleClass]),
		PlateNumber:  values[constants.FieldPlateNumber],
		Online:       values[constants.FieldOnline] == "1",
		Reserved:     values[constants.FieldReserved] == "1",
		Location:     models.Coordinates{Latitude: lat, Longitude: lng},
		Geohash:      values[constants.FieldGeohash],
		Rating:       rating,
		RatingCount:  ratingCount,
		TotalTrips:   totalTrips,
		UpdatedAt:    updatedAt,
	}
}
