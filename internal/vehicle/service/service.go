package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"parkgate/internal/vehicle/models"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type VehicleStore interface {
	CreateType(ctx context.Context, t *models.VehicleType) error
	FindTypeByID(ctx context.Context, id int64) (*models.VehicleType, error)
	FindAllTypes(ctx context.Context) ([]*models.VehicleType, error)
	Create(ctx context.Context, v *models.Vehicle) error
	FindByID(ctx context.Context, id int64) (*models.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	FindAll(ctx context.Context) ([]*models.Vehicle, error)
}

// Service owns the vehicle and vehicle-type registries.
type Service struct {
	vehicles VehicleStore
	logger   *slog.Logger
}

func New(vehicles VehicleStore, logger *slog.Logger) *Service {
	return &Service{vehicles: vehicles, logger: logger}
}

func (s *Service) CreateType(ctx context.Context, name string) (*models.VehicleType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vehicle type name is required")
	}
	t := &models.VehicleType{Name: name}
	if err := s.vehicles.CreateType(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vehicle type %q already exists", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vehicle type")
	}
	return t, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]*models.VehicleType, error) {
	out, err := s.vehicles.FindAllTypes(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vehicle types")
	}
	return out, nil
}

// Create registers a vehicle under a known type.
func (s *Service) Create(ctx context.Context, plate string, vehicleTypeID int64) (*models.Vehicle, error) {
	vehicle, err := models.NewVehicle(plate, vehicleTypeID, time.Now())
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicles.FindTypeByID(ctx, vehicleTypeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vehicle type %d not found", vehicleTypeID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle type")
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "vehicle %s already registered", vehicle.Plate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vehicle")
	}
	s.logger.InfoContext(ctx, "vehicle registered",
		"event", "vehicle_created",
		"vehicle_id", vehicle.ID,
		"plate", vehicle.Plate,
	)
	return vehicle, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "vehicle not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle")
	}
	return v, nil
}

func (s *Service) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	plate, err := models.NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "vehicle %s not found", plate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vehicle")
	}
	return v, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Vehicle, error) {
	out, err := s.vehicles.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vehicles")
	}
	return out, nil
}
