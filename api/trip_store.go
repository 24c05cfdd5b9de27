package api

import (
	"sort"
	"sync"
	"time"

	"trip-impact-service/models"

	"github.com/google/uuid"
)

// StoredTrip is a trip result kept for later lookup
type StoredTrip struct {
	ID        uuid.UUID          `json:"id"`
	Trip      *models.TripResult `json:"trip"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TripStore holds recent trip results in memory, keyed by id
type TripStore struct {
	data  map[uuid.UUID]StoredTrip
	mutex sync.RWMutex
}

// NewTripStore creates a new in-memory trip store
func NewTripStore() *TripStore {
	return &TripStore{
		data: make(map[uuid.UUID]StoredTrip),
	}
}

// Save stores a trip result under a fresh id
func (s *TripStore) Save(trip *models.TripResult) StoredTrip {
	stored := StoredTrip{
		ID:        uuid.New(),
		Trip:      trip,
		CreatedAt: time.Now(),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[stored.ID] = stored
	return stored
}

// Get retrieves a trip by id
func (s *TripStore) Get(id uuid.UUID) (StoredTrip, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stored, exists := s.data[id]
	return stored, exists
}

// List returns all stored trips, newest first
func (s *TripStore) List() []StoredTrip {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	trips := make([]StoredTrip, 0, len(s.data))
	for _, stored := range s.data {
		trips = append(trips, stored)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips
}

// PruneOlderThan removes trips older than the specified duration
func (s *TripStore) PruneOlderThan(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	prunedCount := 0

	for id, stored := range s.data {
		if stored.CreatedAt.Before(cutoff) {
			delete(s.data, id)
			prunedCount++
		}
	}

	return prunedCount
}
