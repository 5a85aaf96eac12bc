package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"parkgate/internal/transit/models"
	"parkgate/pkg/platform/sentinel"
)

// ClosedQuery scopes closed-transit reads. Zero time bounds match everything;
// an empty VehicleIDs slice means no vehicle filter.
type ClosedQuery struct {
	From       time.Time
	To         time.Time
	FacilityID *int64
	VehicleIDs []int64
}

type InMemory struct {
	mu       sync.RWMutex
	transits map[int64]models.Transit
	nextID   int64
}

func NewInMemory() *InMemory {
	return &InMemory{transits: make(map[int64]models.Transit), nextID: 1}
}

func (s *InMemory) Create(_ context.Context, t *models.Transit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// same guarantee as the partial unique index on open transits
	if t.Status == models.StatusOpen {
		for _, existing := range s.transits {
			if existing.VehicleID == t.VehicleID && existing.Status == models.StatusOpen {
				return sentinel.ErrConflict
			}
		}
	}
	t.ID = s.nextID
	s.nextID++
	s.transits[t.ID] = *t
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.transits[id]; ok {
		return &t, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindOpenByVehicle returns the single open transit for a vehicle, if any.
func (s *InMemory) FindOpenByVehicle(_ context.Context, vehicleID int64) (*models.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transits {
		if t.VehicleID == vehicleID && t.Status == models.StatusOpen {
			copy := t
			return &copy, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) CountOpenByFacility(_ context.Context, facilityID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.transits {
		if t.FacilityID == facilityID && t.Status == models.StatusOpen {
			n++
		}
	}
	return n, nil
}

// Close writes the exit fields, tariff and amount in one step, guarded on the
// transit still being open.
func (s *InMemory) Close(_ context.Context, id int64, exitGateID int64, exitAt time.Time, tariffID int64, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transits[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.Status != models.StatusOpen {
		return sentinel.ErrInvalidState
	}
	t.ExitGateID = &exitGateID
	t.ExitAt = &exitAt
	t.TariffID = &tariffID
	t.AmountCents = &amountCents
	t.Status = models.StatusClosed
	s.transits[id] = t
	return nil
}

// reopen restores a transit to open for compensation in the memory tx runner.
func (s *InMemory) reopen(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transits[id]
	if !ok {
		return
	}
	t.ExitGateID = nil
	t.ExitAt = nil
	t.TariffID = nil
	t.AmountCents = nil
	t.Status = models.StatusOpen
	s.transits[id] = t
}

// remove deletes a transit for compensation in the memory tx runner.
func (s *InMemory) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transits, id)
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transit, 0, len(s.transits))
	for _, t := range s.transits {
		copy := t
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindClosed lists closed transits matching the query, ordered by exit time.
func (s *InMemory) FindClosed(_ context.Context, q ClosedQuery) ([]*models.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transit, 0)
	for _, t := range s.transits {
		if t.Status != models.StatusClosed {
			continue
		}
		if !q.From.IsZero() && t.ExitAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && t.ExitAt.After(q.To) {
			continue
		}
		if q.FacilityID != nil && t.FacilityID != *q.FacilityID {
			continue
		}
		if len(q.VehicleIDs) > 0 && !slices.Contains(q.VehicleIDs, t.VehicleID) {
			continue
		}
		copy := t
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExitAt.Before(*out[j].ExitAt) })
	return out, nil
}
