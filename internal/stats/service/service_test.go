package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	facilityModels "parkgate/internal/facility/models"
	facilitystore "parkgate/internal/facility/store"
	"parkgate/internal/stats/service"
	transitModels "parkgate/internal/transit/models"
	transitstore "parkgate/internal/transit/store"
	vehicleModels "parkgate/internal/vehicle/models"
	vehiclestore "parkgate/internal/vehicle/store"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

var statsBase = time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)

type StatsServiceSuite struct {
	suite.Suite
	ctx        context.Context
	facilities *facilitystore.InMemory
	vehicles   *vehiclestore.InMemory
	transits   *transitstore.InMemory

	central *facilityModels.Facility
	annex   *facilityModels.Facility
	car     *vehicleModels.Vehicle
	van     *vehicleModels.Vehicle
}

func (s *StatsServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.facilities = facilitystore.NewInMemory()
	s.vehicles = vehiclestore.NewInMemory()
	s.transits = transitstore.NewInMemory()

	var err error
	s.central, err = facilityModels.NewFacility("Central", 10, statsBase)
	s.Require().NoError(err)
	s.Require().NoError(s.facilities.Create(s.ctx, s.central))
	s.annex, err = facilityModels.NewFacility("Annex", 10, statsBase)
	s.Require().NoError(err)
	s.Require().NoError(s.facilities.Create(s.ctx, s.annex))

	carType := &vehicleModels.VehicleType{Name: "car"}
	s.Require().NoError(s.vehicles.CreateType(s.ctx, carType))
	s.car, err = vehicleModels.NewVehicle("AB123CD", carType.ID, statsBase)
	s.Require().NoError(err)
	s.Require().NoError(s.vehicles.Create(s.ctx, s.car))
	s.van, err = vehicleModels.NewVehicle("EF456GH", carType.ID, statsBase)
	s.Require().NoError(err)
	s.Require().NoError(s.vehicles.Create(s.ctx, s.van))
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func (s *StatsServiceSuite) newService(opts ...service.Option) *service.Service {
	return service.New(s.transits, s.facilities, s.vehicles, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

// closeTransit seeds one closed transit directly at the store level.
func (s *StatsServiceSuite) closeTransit(vehicleID, facilityID int64, entry time.Time, stay time.Duration, amountCents int64) {
	t := transitModels.NewTransit(vehicleID, 1, facilityID, entry)
	s.Require().NoError(s.transits.Create(s.ctx, t))
	s.Require().NoError(s.transits.Close(s.ctx, t.ID, 2, entry.Add(stay), 1, amountCents))
}

func (s *StatsServiceSuite) TestSummarize() {
	s.closeTransit(s.car.ID, s.central.ID, statsBase, 60*time.Minute, 500)
	s.closeTransit(s.van.ID, s.central.ID, statsBase.Add(2*time.Hour), 30*time.Minute, 500)
	s.closeTransit(s.car.ID, s.annex.ID, statsBase.Add(5*time.Hour), 90*time.Minute, 900)

	// An open transit never contributes.
	open := transitModels.NewTransit(s.van.ID, 1, s.central.ID, statsBase.Add(6*time.Hour))
	s.Require().NoError(s.transits.Create(s.ctx, open))

	s.Run("aggregates everything without a filter", func() {
		summary, err := s.newService().Summarize(s.ctx, transitModels.Filter{})
		s.Require().NoError(err)
		s.Equal(3, summary.TransitCount)
		s.Equal(int64(1900), summary.RevenueCents)
		s.InDelta(60.0, summary.AvgDurationMinutes, 0.01)

		s.Require().Len(summary.Facilities, 2)
		s.Equal("Central", summary.Facilities[0].Name)
		s.Equal(2, summary.Facilities[0].TransitCount)
		s.Equal(int64(1000), summary.Facilities[0].RevenueCents)
		s.Equal("Annex", summary.Facilities[1].Name)
		s.Equal(int64(900), summary.Facilities[1].RevenueCents)
	})

	s.Run("filters by facility", func() {
		summary, err := s.newService().Summarize(s.ctx, transitModels.Filter{FacilityID: &s.annex.ID})
		s.Require().NoError(err)
		s.Equal(1, summary.TransitCount)
		s.Equal(int64(900), summary.RevenueCents)
	})

	s.Run("filters by period on exit time", func() {
		summary, err := s.newService().Summarize(s.ctx, transitModels.Filter{
			From: statsBase,
			To:   statsBase.Add(3 * time.Hour),
		})
		s.Require().NoError(err)
		s.Equal(2, summary.TransitCount)
	})

	s.Run("filters by plates", func() {
		summary, err := s.newService().Summarize(s.ctx, transitModels.Filter{Plates: []string{"ab123cd"}})
		s.Require().NoError(err)
		s.Equal(2, summary.TransitCount)
		s.Equal(int64(1400), summary.RevenueCents)
	})

	s.Run("unknown plates match nothing", func() {
		summary, err := s.newService().Summarize(s.ctx, transitModels.Filter{Plates: []string{"ZZ999ZZ"}})
		s.Require().NoError(err)
		s.Zero(summary.TransitCount)
	})

	s.Run("rejects an inverted period", func() {
		_, err := s.newService().Summarize(s.ctx, transitModels.Filter{
			From: statsBase.Add(time.Hour),
			To:   statsBase,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *StatsServiceSuite) TestListClosed() {
	s.closeTransit(s.car.ID, s.central.ID, statsBase, 60*time.Minute, 500)
	s.closeTransit(s.van.ID, s.central.ID, statsBase.Add(2*time.Hour), 30*time.Minute, 500)
	s.closeTransit(s.car.ID, s.annex.ID, statsBase.Add(5*time.Hour), 90*time.Minute, 900)

	s.Run("lists rows ordered by exit time", func() {
		rows, err := s.newService().ListClosed(s.ctx, transitModels.Filter{})
		s.Require().NoError(err)
		s.Require().Len(rows, 3)
		s.Equal(s.car.ID, rows[0].VehicleID)
		s.Equal(s.annex.ID, rows[2].FacilityID)
	})

	s.Run("applies plate and period filters", func() {
		rows, err := s.newService().ListClosed(s.ctx, transitModels.Filter{
			From:   statsBase,
			To:     statsBase.Add(3 * time.Hour),
			Plates: []string{"ab123cd"},
		})
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(s.car.ID, rows[0].VehicleID)
	})

	s.Run("unknown plates yield an empty list", func() {
		rows, err := s.newService().ListClosed(s.ctx, transitModels.Filter{Plates: []string{"ZZ999ZZ"}})
		s.Require().NoError(err)
		s.Empty(rows)
	})

	s.Run("rejects an inverted period", func() {
		_, err := s.newService().ListClosed(s.ctx, transitModels.Filter{
			From: statsBase.Add(time.Hour),
			To:   statsBase,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// mapCache is a trivial in-process cache for exercising the read-through path.
type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", sentinel.ErrNotFound
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]string)
	}
	c.data[key] = value
	c.sets++
	return nil
}

func (s *StatsServiceSuite) TestCaching() {
	s.closeTransit(s.car.ID, s.central.ID, statsBase, time.Hour, 500)

	cache := &mapCache{}
	svc := s.newService(service.WithCache(cache, 30*time.Second))

	first, err := svc.Summarize(s.ctx, transitModels.Filter{})
	s.Require().NoError(err)
	s.Equal(1, cache.sets)

	// New rows are invisible until the entry expires.
	s.closeTransit(s.van.ID, s.central.ID, statsBase.Add(time.Hour), time.Hour, 700)

	second, err := svc.Summarize(s.ctx, transitModels.Filter{})
	s.Require().NoError(err)
	s.Equal(first.TransitCount, second.TransitCount)
	s.Equal(1, cache.sets)

	// A different filter is a different cache key.
	_, err = svc.Summarize(s.ctx, transitModels.Filter{FacilityID: &s.central.ID})
	s.Require().NoError(err)
	s.Equal(2, cache.sets)
}
