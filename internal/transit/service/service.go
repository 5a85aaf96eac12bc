package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gateModels "parkgate/internal/gate/models"
	"parkgate/internal/platform/metrics"
	"parkgate/internal/platform/middleware"
	tariffModels "parkgate/internal/tariff/models"
	"parkgate/internal/transit/models"
	vehicleModels "parkgate/internal/vehicle/models"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type TransitStore interface {
	FindByID(ctx context.Context, id int64) (*models.Transit, error)
	FindOpenByVehicle(ctx context.Context, vehicleID int64) (*models.Transit, error)
	FindAll(ctx context.Context) ([]*models.Transit, error)
}

type GateFinder interface {
	FindByID(ctx context.Context, id int64) (*gateModels.Gate, error)
}

type VehicleFinder interface {
	FindByID(ctx context.Context, id int64) (*vehicleModels.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*vehicleModels.Vehicle, error)
}

type TariffResolver interface {
	Resolve(ctx context.Context, facilityID, vehicleTypeID int64, at time.Time) (*tariffModels.Rule, error)
}

// Service drives the transit lifecycle: open at an entry-capable gate while a
// slot is available, close at an exit-capable gate once a tariff resolves.
type Service struct {
	transits TransitStore
	gates    GateFinder
	vehicles VehicleFinder
	tariffs  TariffResolver
	tx       TransitTx
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(transits TransitStore, gates GateFinder, vehicles VehicleFinder, tariffs TariffResolver, tx TransitTx, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{transits: transits, gates: gates, vehicles: vehicles, tariffs: tariffs, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open records a vehicle entering through a gate. The slot acquire and the
// transit insert share one unit of work, so an open transit always accounts
// for exactly one occupied slot. A full facility rejects the entry.
func (s *Service) Open(ctx context.Context, plate string, gateID int64, at time.Time) (*models.Transit, error) {
	plate, err := vehicleModels.NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = time.Now()
	}

	vehicle, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vehicle %s not found", plate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle")
	}

	gate, err := s.gates.FindByID(ctx, gateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "gate %d not found", gateID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load gate")
	}
	if !gate.CanEnter() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "gate %d does not accept entries", gateID)
	}

	if _, err := s.transits.FindOpenByVehicle(ctx, vehicle.ID); err == nil {
		return nil, dErrors.Newf(dErrors.CodeConflict, "vehicle %s already has an open transit", plate)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check open transits")
	}

	transit := models.NewTransit(vehicle.ID, gate.ID, gate.FacilityID, at)
	err = s.tx.RunInTx(ctx, func(stores TxStores) error {
		if err := stores.Facilities.AcquireSlot(ctx, gate.FacilityID); err != nil {
			return err
		}
		return stores.Transits.Create(ctx, transit)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrCapacityExhausted) {
			if s.metrics != nil {
				s.metrics.CapacityRejections.Inc()
			}
			return nil, dErrors.Newf(dErrors.CodeCapacityExhausted, "facility %d is full", gate.FacilityID)
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vehicle %s already has an open transit", plate)
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open transit")
	}

	s.logger.InfoContext(ctx, "transit opened",
		"event", "transit_opened",
		"transit_id", transit.ID,
		"vehicle_id", vehicle.ID,
		"gate_id", gate.ID,
		"facility_id", gate.FacilityID,
		"request_id", middleware.GetRequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.TransitsOpened.Inc()
	}
	return transit, nil
}

// Close settles an open transit at an exit-capable gate. The tariff must
// resolve before anything is written: a lookup miss leaves the transit open
// and the slot occupied. The close update and the slot release then land as
// one unit.
func (s *Service) Close(ctx context.Context, transitID, exitGateID int64, at time.Time) (*models.Transit, error) {
	if at.IsZero() {
		at = time.Now()
	}

	transit, err := s.transits.FindByID(ctx, transitID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "transit %d not found", transitID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transit")
	}
	if !transit.IsOpen() {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "transit %d is already closed", transitID)
	}

	gate, err := s.gates.FindByID(ctx, exitGateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "gate %d not found", exitGateID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load gate")
	}
	if !gate.CanExit() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "gate %d does not accept exits", exitGateID)
	}
	if gate.FacilityID != transit.FacilityID {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "gate %d belongs to a different facility", exitGateID)
	}

	vehicle, err := s.vehicles.FindByID(ctx, transit.VehicleID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle")
	}

	rule, err := s.tariffs.Resolve(ctx, transit.FacilityID, vehicle.VehicleTypeID, at)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) && s.metrics != nil {
			s.metrics.TariffLookupMisses.Inc()
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(stores TxStores) error {
		if err := stores.Transits.Close(ctx, transit.ID, gate.ID, at, rule.ID, rule.AmountCents); err != nil {
			return err
		}
		return stores.Facilities.ReleaseSlot(ctx, transit.FacilityID)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Newf(dErrors.CodeInvalidState, "transit %d is already closed", transitID)
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to close transit")
	}

	closed, err := s.transits.FindByID(ctx, transit.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reload transit")
	}

	s.logger.InfoContext(ctx, "transit closed",
		"event", "transit_closed",
		"transit_id", closed.ID,
		"gate_id", gate.ID,
		"facility_id", closed.FacilityID,
		"amount_cents", rule.AmountCents,
		"request_id", middleware.GetRequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.TransitsClosed.Inc()
		s.metrics.RevenueCents.Add(float64(rule.AmountCents))
	}
	return closed, nil
}

// CloseByPlate settles the open transit of the vehicle carrying the plate.
// Exit gates sense plates, not transit IDs.
func (s *Service) CloseByPlate(ctx context.Context, plate string, exitGateID int64, at time.Time) (*models.Transit, error) {
	plate, err := vehicleModels.NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vehicle %s not found", plate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle")
	}
	open, err := s.transits.FindOpenByVehicle(ctx, vehicle.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no open transit for vehicle %s", plate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load open transit")
	}
	return s.Close(ctx, open.ID, exitGateID, at)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Transit, error) {
	t, err := s.transits.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "transit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transit")
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Transit, error) {
	out, err := s.transits.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transits")
	}
	return out, nil
}
