package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parkgate/internal/tariff/models"
	"parkgate/internal/tariff/service"
	tariffstore "parkgate/internal/tariff/store"
	dErrors "parkgate/pkg/domain-errors"
)

type TariffServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *tariffstore.InMemory
	service *service.Service
}

func (s *TariffServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = tariffstore.NewInMemory()
	s.service = service.New(s.store, service.NewCalendar(6, 22, nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTariffServiceSuite(t *testing.T) {
	suite.Run(t, new(TariffServiceSuite))
}

func (s *TariffServiceSuite) TestCreate() {
	s.Run("creates a rule", func() {
		rule, err := s.service.Create(s.ctx, 1, 1, 500, models.TimeBandDay, models.DayBandWeekday)
		s.Require().NoError(err)
		s.NotZero(rule.ID)
		s.Equal(int64(500), rule.AmountCents)
	})

	s.Run("rejects a second rule for the same combination", func() {
		_, err := s.service.Create(s.ctx, 1, 1, 700, models.TimeBandDay, models.DayBandWeekday)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("allows the same bands for another facility", func() {
		_, err := s.service.Create(s.ctx, 2, 1, 700, models.TimeBandDay, models.DayBandWeekday)
		s.NoError(err)
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.service.Create(s.ctx, 1, 1, 0, models.TimeBandNight, models.DayBandWeekday)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *TariffServiceSuite) TestResolve() {
	weekdayDay, err := s.service.Create(s.ctx, 1, 1, 500, models.TimeBandDay, models.DayBandWeekday)
	s.Require().NoError(err)
	holidayNight, err := s.service.Create(s.ctx, 1, 1, 900, models.TimeBandNight, models.DayBandHoliday)
	s.Require().NoError(err)

	s.Run("resolves weekday daytime", func() {
		// Monday 2024-01-08 at 08:00.
		at := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
		rule, err := s.service.Resolve(s.ctx, 1, 1, at)
		s.Require().NoError(err)
		s.Equal(weekdayDay.ID, rule.ID)
	})

	s.Run("resolves weekend night", func() {
		// Saturday 2024-01-13 at 23:00.
		at := time.Date(2024, time.January, 13, 23, 0, 0, 0, time.UTC)
		rule, err := s.service.Resolve(s.ctx, 1, 1, at)
		s.Require().NoError(err)
		s.Equal(holidayNight.ID, rule.ID)
	})

	s.Run("misses are a hard stop", func() {
		// Saturday daytime has no rule.
		at := time.Date(2024, time.January, 13, 12, 0, 0, 0, time.UTC)
		_, err := s.service.Resolve(s.ctx, 1, 1, at)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("no applicable tariff", dErrors.MessageOf(err))
	})

	s.Run("misses for an unpriced vehicle type", func() {
		at := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
		_, err := s.service.Resolve(s.ctx, 1, 2, at)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *TariffServiceSuite) TestUpdateAmount() {
	rule, err := s.service.Create(s.ctx, 1, 1, 500, models.TimeBandDay, models.DayBandWeekday)
	s.Require().NoError(err)

	s.Run("reprices", func() {
		updated, err := s.service.UpdateAmount(s.ctx, rule.ID, 650)
		s.Require().NoError(err)
		s.Equal(int64(650), updated.AmountCents)
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.service.UpdateAmount(s.ctx, rule.ID, -1)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown rule reports not found", func() {
		_, err := s.service.UpdateAmount(s.ctx, 9999, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *TariffServiceSuite) TestDelete() {
	rule, err := s.service.Create(s.ctx, 1, 1, 500, models.TimeBandDay, models.DayBandWeekday)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, rule.ID))

	// The combination is free again after deletion.
	_, err = s.service.Create(s.ctx, 1, 1, 800, models.TimeBandDay, models.DayBandWeekday)
	s.NoError(err)
}
