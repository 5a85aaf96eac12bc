package store

import (
	"context"
	"sync"

	"parkgate/internal/vehicle/models"
	"parkgate/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	vehicles map[int64]models.Vehicle
	types    map[int64]models.VehicleType
	nextID   int64
	nextType int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		vehicles: make(map[int64]models.Vehicle),
		types:    make(map[int64]models.VehicleType),
		nextID:   1,
		nextType: 1,
	}
}

func (s *InMemory) CreateType(_ context.Context, t *models.VehicleType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if existing.Name == t.Name {
			return sentinel.ErrConflict
		}
	}
	t.ID = s.nextType
	s.nextType++
	s.types[t.ID] = *t
	return nil
}

func (s *InMemory) FindTypeByID(_ context.Context, id int64) (*models.VehicleType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.types[id]; ok {
		return &t, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAllTypes(_ context.Context) ([]*models.VehicleType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VehicleType, 0, len(s.types))
	for _, t := range s.types {
		copy := t
		out = append(out, &copy)
	}
	return out, nil
}

func (s *InMemory) Create(_ context.Context, v *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[v.VehicleTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.vehicles {
		if existing.Plate == v.Plate {
			return sentinel.ErrConflict
		}
	}
	v.ID = s.nextID
	s.nextID++
	s.vehicles[v.ID] = *v
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vehicles[id]; ok {
		return &v, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.Plate == plate {
			copy := v
			return &copy, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		copy := v
		out = append(out, &copy)
	}
	return out, nil
}
