package main

import (
	"context"
	"database/sql"
	"time"

	facilitystore "parkgate/internal/facility/store"
	transitservice "parkgate/internal/transit/service"
	transitstore "parkgate/internal/transit/store"
	dErrors "parkgate/pkg/domain-errors"
)

const defaultTransitTxTimeout = 5 * time.Second

// transitPostgresTx runs a transit write and its slot movement in one
// database transaction.
type transitPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newTransitPostgresTx(db *sql.DB) *transitPostgresTx {
	return &transitPostgresTx{db: db}
}

func (t *transitPostgresTx) RunInTx(ctx context.Context, fn func(stores transitservice.TxStores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTransitTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stores := transitservice.TxStores{
		Transits:   transitstore.NewPostgresTx(tx),
		Facilities: facilitystore.NewPostgresTx(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
