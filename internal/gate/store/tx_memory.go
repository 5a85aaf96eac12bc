package store

import (
	"context"
	"sync"

	credModels "parkgate/internal/credential/models"
	credstore "parkgate/internal/credential/store"
	"parkgate/internal/gate/models"
	"parkgate/internal/gate/service"
)

// MemoryTx is the in-memory provisioning boundary: a coarse lock serializes
// units of work, and created rows are compensated away when fn fails, so the
// all-or-nothing contract holds without a database.
type MemoryTx struct {
	mu    sync.Mutex
	gates *InMemory
	creds *credstore.InMemory
}

func NewMemoryTx(gates *InMemory, creds *credstore.InMemory) *MemoryTx {
	return &MemoryTx{gates: gates, creds: creds}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(stores service.TxStores) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	gateProxy := &txGateStore{inner: t.gates}
	credProxy := &txCredentialStore{inner: t.creds}
	err := fn(service.TxStores{Gates: gateProxy, Credentials: credProxy})
	if err != nil {
		for _, gateID := range credProxy.createdFor {
			_ = t.creds.DeleteByGate(ctx, gateID)
		}
		for _, id := range gateProxy.created {
			_ = t.gates.Delete(ctx, id)
		}
		return err
	}
	return nil
}

// txGateStore records created gate IDs for compensation.
type txGateStore struct {
	inner   *InMemory
	created []int64
}

func (s *txGateStore) Create(ctx context.Context, gate *models.Gate) error {
	if err := s.inner.Create(ctx, gate); err != nil {
		return err
	}
	s.created = append(s.created, gate.ID)
	return nil
}

// txCredentialStore records owning gate IDs of created credentials.
type txCredentialStore struct {
	inner      *credstore.InMemory
	createdFor []int64
}

func (s *txCredentialStore) Create(ctx context.Context, cred *credModels.OperatingCredential) error {
	if err := s.inner.Create(ctx, cred); err != nil {
		return err
	}
	s.createdFor = append(s.createdFor, cred.GateID)
	return nil
}
