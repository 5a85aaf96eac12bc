package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parkgate/internal/tariff/models"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type RuleStore interface {
	CreateIfUnambiguous(ctx context.Context, rule *models.Rule) error
	FindByID(ctx context.Context, id int64) (*models.Rule, error)
	FindAll(ctx context.Context) ([]*models.Rule, error)
	FindByKey(ctx context.Context, key models.Key) (*models.Rule, error)
	UpdateAmount(ctx context.Context, id int64, amountCents int64, now time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Service owns the tariff table and band classification.
type Service struct {
	rules    RuleStore
	calendar *Calendar
	logger   *slog.Logger
}

func New(rules RuleStore, calendar *Calendar, logger *slog.Logger) *Service {
	return &Service{rules: rules, calendar: calendar, logger: logger}
}

// Create inserts a rule, rejecting a second rule for an already-covered
// combination so resolution stays deterministic.
func (s *Service) Create(ctx context.Context, facilityID, vehicleTypeID, amountCents int64, timeBand models.TimeBand, dayBand models.DayBand) (*models.Rule, error) {
	rule, err := models.NewRule(facilityID, vehicleTypeID, amountCents, timeBand, dayBand, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.rules.CreateIfUnambiguous(ctx, rule); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a tariff rule already covers this combination")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tariff rule")
	}
	s.logger.InfoContext(ctx, "tariff rule created",
		"event", "tariff_rule_created",
		"rule_id", rule.ID,
		"facility_id", rule.FacilityID,
	)
	return rule, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Rule, error) {
	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tariff rule not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tariff rule")
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Rule, error) {
	out, err := s.rules.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tariff rules")
	}
	return out, nil
}

// UpdateAmount reprices a rule. Band keys are immutable so the uniqueness
// guarantee cannot be bypassed by an update.
func (s *Service) UpdateAmount(ctx context.Context, id int64, amountCents int64) (*models.Rule, error) {
	if amountCents <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tariff amount must be positive")
	}
	if err := s.rules.UpdateAmount(ctx, id, amountCents, time.Now()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tariff rule not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tariff rule")
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "tariff rule not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete tariff rule")
	}
	return nil
}

// Resolve picks the unique rule for a facility, vehicle type and instant. A
// miss is a hard stop: billing never silently defaults to zero.
func (s *Service) Resolve(ctx context.Context, facilityID, vehicleTypeID int64, at time.Time) (*models.Rule, error) {
	key := models.Key{
		FacilityID:    facilityID,
		VehicleTypeID: vehicleTypeID,
		TimeBand:      s.calendar.TimeBand(at),
		DayBand:       s.calendar.DayBand(at),
	}
	rule, err := s.rules.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no applicable tariff")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve tariff")
	}
	return rule, nil
}
