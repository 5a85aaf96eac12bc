package main

import (
	"context"
	"database/sql"
	"time"

	credstore "parkgate/internal/credential/store"
	gateservice "parkgate/internal/gate/service"
	gatestore "parkgate/internal/gate/store"
	dErrors "parkgate/pkg/domain-errors"
)

const defaultProvisionTxTimeout = 5 * time.Second

// provisionPostgresTx runs the gate and credential inserts in one database
// transaction.
type provisionPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newProvisionPostgresTx(db *sql.DB) *provisionPostgresTx {
	return &provisionPostgresTx{db: db}
}

func (t *provisionPostgresTx) RunInTx(ctx context.Context, fn func(stores gateservice.TxStores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultProvisionTxTimeout
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

	stores := gateservice.TxStores{
		Gates:       gatestore.NewPostgresTx(tx),
		Credentials: credstore.NewPostgresTx(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
