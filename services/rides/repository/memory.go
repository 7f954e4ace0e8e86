package repository

import (
	"context"
	"sync"

	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
	"github.com/tara-ride/dispatch/internal/pkg/models"
	"github.com/tara-ride/dispatch/services/rides"
)

// MemoryStore keeps ride records in process. Values are copied in and out so
// callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]models.RideRequest
	rides    map[string]models.Ride
	active   map[string]string
}

// NewMemoryStore creates an empty in-memory ride store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: make(map[string]models.RideRequest),
		rides:    make(map[string]models.Ride),
		active:   make(map[string]string),
	}
}

var _ rides.RideStore = (*MemoryStore)(nil)

func (s *MemoryStore) SaveRequest(ctx context.Context, req *models.RideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, id string) (*models.RideRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}
	return &req, nil
}

func (s *MemoryStore) UpdateRequest(ctx context.Context, req *models.RideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return apperrors.ErrRideNotFound
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryStore) ListRequests(ctx context.Context, passengerID string) ([]models.RideRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.RideRequest, 0)
	for _, req := range s.requests {
		if req.PassengerID == passengerID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (s *MemoryStore) SaveRide(ctx context.Context, ride *models.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rides[ride.ID] = *ride
	return nil
}

func (s *MemoryStore) GetRide(ctx context.Context, id string) (*models.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ride, ok := s.rides[id]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}
	return &ride, nil
}

func (s *MemoryStore) UpdateRide(ctx context.Context, ride *models.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rides[ride.ID]; !ok {
		return apperrors.ErrRideNotFound
	}
	s.rides[ride.ID] = *ride
	return nil
}

func (s *MemoryStore) ListRides(ctx context.Context, query rides.RideQuery) ([]models.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Ride, 0)
	for _, ride := range s.rides {
		if query.PassengerID != "" && ride.PassengerID != query.PassengerID {
			continue
		}
		if query.DriverID != "" && ride.DriverID != query.DriverID {
			continue
		}
		result = append(result, ride)
	}
	return result, nil
}

func (s *MemoryStore) SetActive(ctx context.Context, passengerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[passengerID] = id
	return nil
}

func (s *MemoryStore) GetActive(ctx context.Context, passengerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[passengerID], nil
}

func (s *MemoryStore) ClearActive(ctx context.Context, passengerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, passengerID)
	return nil
}
