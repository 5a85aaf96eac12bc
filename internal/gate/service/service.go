package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	credModels "parkgate/internal/credential/models"
	"parkgate/internal/credential/secrets"
	facilityModels "parkgate/internal/facility/models"
	"parkgate/internal/gate/models"
	"parkgate/internal/platform/metrics"
	"parkgate/internal/platform/middleware"
	dErrors "parkgate/pkg/domain-errors"
	"parkgate/pkg/platform/sentinel"
)

type GateStore interface {
	FindByID(ctx context.Context, id int64) (*models.Gate, error)
	FindAll(ctx context.Context) ([]*models.Gate, error)
	FindByFacility(ctx context.Context, facilityID int64) ([]*models.Gate, error)
	FindByDirection(ctx context.Context, direction models.Direction) ([]*models.Gate, error)
	FindBidirectional(ctx context.Context) ([]*models.Gate, error)
	Update(ctx context.Context, id int64, bidirectional *bool, facilityID *int64, now time.Time) error
	Delete(ctx context.Context, id int64) error
	DeleteByFacility(ctx context.Context, facilityID int64) (bool, error)
}

type FacilityFinder interface {
	FindByID(ctx context.Context, id int64) (*facilityModels.Facility, error)
}

type CredentialStore interface {
	FindByGate(ctx context.Context, gateID int64) (*credModels.OperatingCredential, error)
	DeleteByGate(ctx context.Context, gateID int64) error
}

// Service owns the gate registry and the provisioning transaction.
type Service struct {
	gates       GateStore
	facilities  FacilityFinder
	credentials CredentialStore
	tx          ProvisioningTx
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(s *Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(gates GateStore, facilities FacilityFinder, credentials CredentialStore, tx ProvisioningTx, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{gates: gates, facilities: facilities, credentials: credentials, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvisionResult is returned by Create. Secret is the cleartext operating
// secret, available only at provisioning time.
type ProvisionResult struct {
	Gate       *models.Gate
	Credential *credModels.OperatingCredential
	Secret     string
}

// Create provisions a gate and its operating credential in one atomic unit.
// The gate insert must complete first because the credential identity derives
// from the assigned gate ID. On any failure the whole unit rolls back:
// classified errors propagate unchanged, everything else is normalized so
// callers cannot tell which half failed and must retry the pair.
func (s *Service) Create(ctx context.Context, direction models.Direction, bidirectional bool, facilityID int64) (*ProvisionResult, error) {
	gate, err := models.NewGate(direction, bidirectional, facilityID, time.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.facilities.FindByID(ctx, facilityID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "facility %d not found", facilityID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load facility")
	}

	secret, err := secrets.Generate()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate operating secret")
	}
	secretHash, err := secrets.Hash(secret)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash operating secret")
	}

	var cred *credModels.OperatingCredential
	err = s.tx.RunInTx(ctx, func(stores TxStores) error {
		if err := stores.Gates.Create(ctx, gate); err != nil {
			return err
		}
		cred = credModels.ForGate(gate.ID, secretHash, time.Now())
		return stores.Credentials.Create(ctx, cred)
	})
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create gate and its operating credential")
	}

	s.logger.InfoContext(ctx, "gate provisioned",
		"event", "gate_created",
		"gate_id", gate.ID,
		"facility_id", gate.FacilityID,
		"credential_username", cred.Username,
		"request_id", middleware.GetRequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.GatesCreated.Inc()
	}

	return &ProvisionResult{Gate: gate, Credential: cred, Secret: secret}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Gate, error) {
	g, err := s.gates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "gate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load gate")
	}
	return g, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Gate, error) {
	out, err := s.gates.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gates")
	}
	return out, nil
}

func (s *Service) ListByFacility(ctx context.Context, facilityID int64) ([]*models.Gate, error) {
	out, err := s.gates.FindByFacility(ctx, facilityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gates by facility")
	}
	return out, nil
}

func (s *Service) ListByDirection(ctx context.Context, direction models.Direction) ([]*models.Gate, error) {
	if !direction.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid gate direction %q", direction)
	}
	out, err := s.gates.FindByDirection(ctx, direction)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gates by direction")
	}
	return out, nil
}

func (s *Service) ListBidirectional(ctx context.Context) ([]*models.Gate, error) {
	out, err := s.gates.FindBidirectional(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bidirectional gates")
	}
	return out, nil
}

// Update changes mutable gate fields. Direction is immutable after creation.
func (s *Service) Update(ctx context.Context, id int64, bidirectional *bool, facilityID *int64) (*models.Gate, error) {
	if facilityID != nil {
		if _, err := s.facilities.FindByID(ctx, *facilityID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeNotFound, "facility %d not found", *facilityID)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load facility")
		}
	}
	if err := s.gates.Update(ctx, id, bidirectional, facilityID, time.Now()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "gate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update gate")
	}
	return s.Get(ctx, id)
}

// Delete removes a gate and its operating credential.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.credentials.DeleteByGate(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete gate credential")
	}
	if err := s.gates.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "gate not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete gate")
	}
	s.logger.InfoContext(ctx, "gate deleted", "event", "gate_deleted", "gate_id", id)
	return nil
}

// DeleteByFacility bulk-removes a facility's gates. Zero gates deleted is
// reported as false, not an error.
func (s *Service) DeleteByFacility(ctx context.Context, facilityID int64) (bool, error) {
	gates, err := s.gates.FindByFacility(ctx, facilityID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gates by facility")
	}
	for _, g := range gates {
		if err := s.credentials.DeleteByGate(ctx, g.ID); err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete gate credential")
		}
	}
	deleted, err := s.gates.DeleteByFacility(ctx, facilityID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete gates by facility")
	}
	return deleted, nil
}
