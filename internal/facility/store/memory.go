// Package store provides facility persistence. The in-memory implementation
// keeps tests fast; the postgres implementation is the production path.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"parkgate/internal/facility/models"
	"parkgate/pkg/platform/sentinel"
)

// InMemory keeps facilities in a map guarded by a RWMutex. Slot counter
// mutations take the write lock so racing opens and closes cannot lose
// updates.
type InMemory struct {
	mu         sync.RWMutex
	facilities map[int64]models.Facility
	nextID     int64
}

func NewInMemory() *InMemory {
	return &InMemory{facilities: make(map[int64]models.Facility), nextID: 1}
}

func (s *InMemory) Create(_ context.Context, facility *models.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	facility.ID = s.nextID
	s.nextID++
	s.facilities[facility.ID] = *facility
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facilities[id]; ok {
		return &f, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		copy := f
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, id int64, name *string, capacity *int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if name != nil {
		f.Name = *name
	}
	if capacity != nil {
		// Shrinking capacity never drops the counter below zero occupancy.
		occupied := f.Capacity - f.Available
		if *capacity < occupied {
			return sentinel.ErrInvalidState
		}
		f.Capacity = *capacity
		f.Available = *capacity - occupied
	}
	f.UpdatedAt = now
	s.facilities[id] = f
	return nil
}

func (s *InMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.facilities, id)
	return nil
}

// AcquireSlot decrements the available counter, failing when the facility is
// already full. The check and the decrement happen under one lock.
func (s *InMemory) AcquireSlot(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if f.Available <= 0 {
		return sentinel.ErrCapacityExhausted
	}
	f.Available--
	s.facilities[id] = f
	return nil
}

// ReleaseSlot increments the available counter, clamped at capacity.
func (s *InMemory) ReleaseSlot(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if f.Available < f.Capacity {
		f.Available++
	}
	s.facilities[id] = f
	return nil
}
