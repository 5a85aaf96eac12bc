package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"parkgate/internal/tariff/models"
	"parkgate/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	rules  map[int64]models.Rule
	byKey  map[models.Key]int64
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		rules:  make(map[int64]models.Rule),
		byKey:  make(map[models.Key]int64),
		nextID: 1,
	}
}

// CreateIfUnambiguous inserts a rule unless one already covers the same
// (facility, vehicle type, time band, day band) combination.
func (s *InMemory) CreateIfUnambiguous(_ context.Context, rule *models.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byKey[rule.Key()]; taken {
		return sentinel.ErrConflict
	}
	rule.ID = s.nextID
	s.nextID++
	s.rules[rule.ID] = *rule
	s.byKey[rule.Key()] = rule.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rules[id]; ok {
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		copy := r
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindByKey returns the unique rule for a band combination.
func (s *InMemory) FindByKey(_ context.Context, key models.Key) (*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	r := s.rules[id]
	return &r, nil
}

// UpdateAmount changes a rule's price. Band keys are immutable; re-keying a
// rule is a delete plus a create so the uniqueness check always applies.
func (s *InMemory) UpdateAmount(_ context.Context, id int64, amountCents int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.AmountCents = amountCents
	r.UpdatedAt = now
	s.rules[id] = r
	return nil
}

func (s *InMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byKey, r.Key())
	delete(s.rules, id)
	return nil
}
