package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"parkgate/internal/gate/models"
	"parkgate/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	gates  map[int64]models.Gate
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{gates: make(map[int64]models.Gate), nextID: 1}
}

func (s *InMemory) Create(_ context.Context, gate *models.Gate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate.ID = s.nextID
	s.nextID++
	s.gates[gate.ID] = *gate
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.gates[id]; ok {
		return &g, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(ctx context.Context) ([]*models.Gate, error) {
	return s.findWhere(func(models.Gate) bool { return true })
}

func (s *InMemory) FindByFacility(_ context.Context, facilityID int64) ([]*models.Gate, error) {
	return s.findWhere(func(g models.Gate) bool { return g.FacilityID == facilityID })
}

func (s *InMemory) FindByDirection(_ context.Context, direction models.Direction) ([]*models.Gate, error) {
	return s.findWhere(func(g models.Gate) bool { return g.Direction == direction })
}

func (s *InMemory) FindBidirectional(_ context.Context) ([]*models.Gate, error) {
	return s.findWhere(func(g models.Gate) bool { return g.Bidirectional })
}

func (s *InMemory) findWhere(pred func(models.Gate) bool) ([]*models.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Gate, 0)
	for _, g := range s.gates {
		if pred(g) {
			copy := g
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update changes the bidirectional flag and/or owning facility. Direction is
// immutable and has no update path.
func (s *InMemory) Update(_ context.Context, id int64, bidirectional *bool, facilityID *int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if bidirectional != nil {
		g.Bidirectional = *bidirectional
	}
	if facilityID != nil {
		g.FacilityID = *facilityID
	}
	g.UpdatedAt = now
	s.gates[id] = g
	return nil
}

func (s *InMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gates[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.gates, id)
	return nil
}

// DeleteByFacility removes every gate of a facility, reporting whether any
// existed. Zero gates is not an error for a cascading facility removal.
func (s *InMemory) DeleteByFacility(_ context.Context, facilityID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := false
	for id, g := range s.gates {
		if g.FacilityID == facilityID {
			delete(s.gates, id)
			deleted = true
		}
	}
	return deleted, nil
}
