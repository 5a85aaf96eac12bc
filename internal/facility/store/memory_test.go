package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parkgate/internal/facility/models"
	"parkgate/pkg/platform/sentinel"
)

type FacilityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *FacilityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestFacilityStoreSuite(t *testing.T) {
	suite.Run(t, new(FacilityStoreSuite))
}

func (s *FacilityStoreSuite) newFacility(name string, capacity int) *models.Facility {
	f, err := models.NewFacility(name, capacity, time.Now())
	s.Require().NoError(err)
	return f
}

func (s *FacilityStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds facility by ID", func() {
		f := s.newFacility("Central", 50)
		s.Require().NoError(s.store.Create(s.ctx, f))
		s.Require().NotZero(f.ID)

		found, err := s.store.FindByID(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Equal("Central", found.Name)
		s.Equal(50, found.Available)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, 9999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("assigns increasing IDs", func() {
		a := s.newFacility("A", 10)
		b := s.newFacility("B", 10)
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))
		s.Greater(b.ID, a.ID)
	})
}

func (s *FacilityStoreSuite) TestSlotCounter() {
	f := s.newFacility("Small", 2)
	s.Require().NoError(s.store.Create(s.ctx, f))

	s.Run("acquire decrements until exhausted", func() {
		s.Require().NoError(s.store.AcquireSlot(s.ctx, f.ID))
		s.Require().NoError(s.store.AcquireSlot(s.ctx, f.ID))

		err := s.store.AcquireSlot(s.ctx, f.ID)
		s.Require().ErrorIs(err, sentinel.ErrCapacityExhausted)

		found, err := s.store.FindByID(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Equal(0, found.Available)
	})

	s.Run("release increments but never exceeds capacity", func() {
		s.Require().NoError(s.store.ReleaseSlot(s.ctx, f.ID))
		s.Require().NoError(s.store.ReleaseSlot(s.ctx, f.ID))
		s.Require().NoError(s.store.ReleaseSlot(s.ctx, f.ID))

		found, err := s.store.FindByID(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Equal(2, found.Available)
	})

	s.Run("acquire on unknown facility", func() {
		s.Require().ErrorIs(s.store.AcquireSlot(s.ctx, 9999), sentinel.ErrNotFound)
	})
}

func (s *FacilityStoreSuite) TestUpdate() {
	f := s.newFacility("Resizable", 10)
	s.Require().NoError(s.store.Create(s.ctx, f))

	s.Run("grows capacity and available together", func() {
		capacity := 15
		s.Require().NoError(s.store.Update(s.ctx, f.ID, nil, &capacity, time.Now()))

		found, err := s.store.FindByID(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Equal(15, found.Capacity)
		s.Equal(15, found.Available)
	})

	s.Run("refuses shrink below current occupancy", func() {
		for i := 0; i < 10; i++ {
			s.Require().NoError(s.store.AcquireSlot(s.ctx, f.ID))
		}
		capacity := 5
		err := s.store.Update(s.ctx, f.ID, nil, &capacity, time.Now())
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("renames without touching the counter", func() {
		name := "Renamed"
		s.Require().NoError(s.store.Update(s.ctx, f.ID, &name, nil, time.Now()))

		found, err := s.store.FindByID(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Equal("Renamed", found.Name)
		s.Equal(5, found.Available)
	})
}

func (s *FacilityStoreSuite) TestDelete() {
	f := s.newFacility("Doomed", 5)
	s.Require().NoError(s.store.Create(s.ctx, f))

	s.Require().NoError(s.store.Delete(s.ctx, f.ID))
	_, err := s.store.FindByID(s.ctx, f.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, f.ID), sentinel.ErrNotFound)
}
