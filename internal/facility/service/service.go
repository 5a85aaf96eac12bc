package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"parkgate/internal/facility/models"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type FacilityStore interface {
	Create(ctx context.Context, facility *models.Facility) error
	FindByID(ctx context.Context, id int64) (*models.Facility, error)
	FindAll(ctx context.Context) ([]*models.Facility, error)
	Update(ctx context.Context, id int64, name *string, capacity *int, now time.Time) error
	Delete(ctx context.Context, id int64) error
}

// GateCascader removes all gates of a facility; false means there were none,
// which is not an error for a cascading removal.
type GateCascader interface {
	DeleteByFacility(ctx context.Context, facilityID int64) (bool, error)
}

// OpenTransitCounter reports live transits referencing a facility.
type OpenTransitCounter interface {
	CountOpenByFacility(ctx context.Context, facilityID int64) (int, error)
}

// Service owns the facility registry.
type Service struct {
	facilities FacilityStore
	gates      GateCascader
	transits   OpenTransitCounter
	logger     *slog.Logger
}

func New(facilities FacilityStore, gates GateCascader, transits OpenTransitCounter, logger *slog.Logger) *Service {
	return &Service{facilities: facilities, gates: gates, transits: transits, logger: logger}
}

func (s *Service) Create(ctx context.Context, name string, capacity int) (*models.Facility, error) {
	f, err := models.NewFacility(strings.TrimSpace(name), capacity, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.facilities.Create(ctx, f); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create facility")
	}
	s.logger.InfoContext(ctx, "facility created", "event", "facility_created", "facility_id", f.ID)
	return f, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Facility, error) {
	f, err := s.facilities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "facility not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load facility")
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Facility, error) {
	out, err := s.facilities.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list facilities")
	}
	return out, nil
}

// Update changes name and/or capacity. The available counter is derived,
// never accepted from callers.
func (s *Service) Update(ctx context.Context, id int64, name *string, capacity *int) (*models.Facility, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "facility name cannot be empty")
		}
		name = &trimmed
	}
	if capacity != nil && *capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "facility capacity must be positive")
	}
	if err := s.facilities.Update(ctx, id, name, capacity, time.Now()); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "facility not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvalidState, "capacity cannot shrink below current occupancy")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update facility")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a facility and cascades gate removal. It refuses while any
// open transit still references the facility.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	open, err := s.transits.CountOpenByFacility(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count open transits")
	}
	if open > 0 {
		return dErrors.Newf(dErrors.CodeConflict, "facility has %d open transit(s)", open)
	}

	if _, err := s.gates.DeleteByFacility(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove facility gates")
	}

	if err := s.facilities.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "facility not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete facility")
	}
	s.logger.InfoContext(ctx, "facility deleted", "event", "facility_deleted", "facility_id", id)
	return nil
}
