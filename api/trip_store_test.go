package api

import (
	"testing"
	"time"

	"trip-impact-service/models"

	"github.com/stretchr/testify/assert"
)

func TestTripStoreSaveGet(t *testing.T) {
	s := NewTripStore()
	stored := s.Save(&models.TripResult{StartLocation: "Porto"})

	got, ok := s.Get(stored.ID)
	assert.True(t, ok)
	assert.Equal(t, "Porto", got.Trip.StartLocation)
	assert.Len(t, s.List(), 1)
}

func TestTripStorePrune(t *testing.T) {
	s := NewTripStore()
	old := s.Save(&models.TripResult{StartLocation: "Old"})
	fresh := s.Save(&models.TripResult{StartLocation: "Fresh"})

	s.mutex.Lock()
	entry := s.data[old.ID]
	entry.CreatedAt = time.Now().Add(-2 * time.Hour)
	s.data[old.ID] = entry
	s.mutex.Unlock()

	assert.Equal(t, 1, s.PruneOlderThan(time.Hour))

	_, ok := s.Get(old.ID)
	assert.False(t, ok)
	_, ok = s.Get(fresh.ID)
	assert.True(t, ok)
}
