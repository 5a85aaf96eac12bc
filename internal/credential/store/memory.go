package store

import (
	"context"
	"sync"

	"parkgate/internal/credential/models"
	"parkgate/pkg/platform/sentinel"
)

type InMemory struct {
	mu          sync.RWMutex
	credentials map[int64]models.OperatingCredential
	nextID      int64
}

func NewInMemory() *InMemory {
	return &InMemory{credentials: make(map[int64]models.OperatingCredential), nextID: 1}
}

func (s *InMemory) Create(_ context.Context, cred *models.OperatingCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.credentials {
		if existing.Username == cred.Username || existing.GateID == cred.GateID {
			return sentinel.ErrConflict
		}
	}
	cred.ID = s.nextID
	s.nextID++
	s.credentials[cred.ID] = *cred
	return nil
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.OperatingCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.Username == username {
			copy := c
			return &copy, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByGate(_ context.Context, gateID int64) (*models.OperatingCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.GateID == gateID {
			copy := c
			return &copy, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// DeleteByGate removes the credential bound to a gate, if any. Used by gate
// deletion so no orphaned login survives its gate.
func (s *InMemory) DeleteByGate(_ context.Context, gateID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.credentials {
		if c.GateID == gateID {
			delete(s.credentials, id)
			return nil
		}
	}
	return nil
}
