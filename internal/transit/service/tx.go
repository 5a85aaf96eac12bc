package service

import (
	"context"
	"time"

	"parkgate/internal/transit/models"
)

// TxTransitStore is the transit surface available inside a unit of work.
type TxTransitStore interface {
	Create(ctx context.Context, transit *models.Transit) error
	Close(ctx context.Context, id int64, exitGateID int64, exitAt time.Time, tariffID int64, amountCents int64) error
}

// TxFacilityStore moves the facility slot counter inside the same unit of
// work, so a transit never commits without its slot movement.
type TxFacilityStore interface {
	AcquireSlot(ctx context.Context, facilityID int64) error
	ReleaseSlot(ctx context.Context, facilityID int64) error
}

type TxStores struct {
	Transits   TxTransitStore
	Facilities TxFacilityStore
}

// TransitTx runs fn atomically: either every write inside fn lands, or none do.
type TransitTx interface {
	RunInTx(ctx context.Context, fn func(stores TxStores) error) error
}
