//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parkgate/internal/facility/models"
	"parkgate/internal/facility/store"
	"parkgate/pkg/platform/sentinel"
	"parkgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "facilities")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) createFacility(capacity int) *models.Facility {
	f, err := models.NewFacility("North Garage", capacity, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), f))
	return f
}

// TestConcurrentSlotAcquisition verifies that concurrent acquisitions never
// push the available counter below zero: with capacity 10 and 50 racing
// callers, exactly 10 succeed.
func (s *PostgresStoreSuite) TestConcurrentSlotAcquisition() {
	ctx := context.Background()
	f := s.createFacility(10)
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var exhaustedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.AcquireSlot(ctx, f.ID)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrCapacityExhausted) {
				exhaustedCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(10), successCount.Load(), "exactly capacity acquisitions should succeed")
	s.Equal(int32(goroutines-10), exhaustedCount.Load(), "all others should see exhausted capacity")

	found, err := s.store.FindByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(0, found.Available)
}

// TestReleaseClampsAtCapacity verifies that releases past a full counter do
// not overflow capacity.
func (s *PostgresStoreSuite) TestReleaseClampsAtCapacity() {
	ctx := context.Background()
	f := s.createFacility(3)

	s.Require().NoError(s.store.AcquireSlot(ctx, f.ID))

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.ReleaseSlot(ctx, f.ID))
	}

	found, err := s.store.FindByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(3, found.Available)
}

func (s *PostgresStoreSuite) TestAcquireUnknownFacility() {
	err := s.store.AcquireSlot(context.Background(), 99999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
