package store

import (
	"context"
	"sync"
	"time"

	facilitystore "parkgate/internal/facility/store"
	"parkgate/internal/transit/models"
	"parkgate/internal/transit/service"
)

// MemoryTx is the in-memory transit boundary. A coarse lock serializes units
// of work and every write fn performed is undone when fn fails, keeping the
// slot counter and the transit rows consistent without a database.
type MemoryTx struct {
	mu         sync.Mutex
	transits   *InMemory
	facilities *facilitystore.InMemory
}

func NewMemoryTx(transits *InMemory, facilities *facilitystore.InMemory) *MemoryTx {
	return &MemoryTx{transits: transits, facilities: facilities}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(stores service.TxStores) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	transitProxy := &txTransitStore{inner: t.transits}
	facilityProxy := &txFacilityStore{inner: t.facilities}
	err := fn(service.TxStores{Transits: transitProxy, Facilities: facilityProxy})
	if err != nil {
		for _, id := range transitProxy.closed {
			t.transits.reopen(id)
		}
		for _, id := range transitProxy.created {
			t.transits.remove(id)
		}
		for _, facilityID := range facilityProxy.acquired {
			_ = t.facilities.ReleaseSlot(ctx, facilityID)
		}
		for _, facilityID := range facilityProxy.released {
			_ = t.facilities.AcquireSlot(ctx, facilityID)
		}
		return err
	}
	return nil
}

// txTransitStore records created and closed transit IDs for compensation.
type txTransitStore struct {
	inner   *InMemory
	created []int64
	closed  []int64
}

func (s *txTransitStore) Create(ctx context.Context, transit *models.Transit) error {
	if err := s.inner.Create(ctx, transit); err != nil {
		return err
	}
	s.created = append(s.created, transit.ID)
	return nil
}

func (s *txTransitStore) Close(ctx context.Context, id int64, exitGateID int64, exitAt time.Time, tariffID int64, amountCents int64) error {
	if err := s.inner.Close(ctx, id, exitGateID, exitAt, tariffID, amountCents); err != nil {
		return err
	}
	s.closed = append(s.closed, id)
	return nil
}

// txFacilityStore records slot movements so they can be reversed.
type txFacilityStore struct {
	inner    *facilitystore.InMemory
	acquired []int64
	released []int64
}

func (s *txFacilityStore) AcquireSlot(ctx context.Context, facilityID int64) error {
	if err := s.inner.AcquireSlot(ctx, facilityID); err != nil {
		return err
	}
	s.acquired = append(s.acquired, facilityID)
	return nil
}

func (s *txFacilityStore) ReleaseSlot(ctx context.Context, facilityID int64) error {
	if err := s.inner.ReleaseSlot(ctx, facilityID); err != nil {
		return err
	}
	s.released = append(s.released, facilityID)
	return nil
}
