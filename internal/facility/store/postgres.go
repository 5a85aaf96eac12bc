package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parkgate/internal/facility/models"
	"parkgate/pkg/platform/sentinel"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx so the
// same store code can run inside or outside a unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists facilities in PostgreSQL.
type Postgres struct {
	db querier
}

// NewPostgres constructs a PostgreSQL-backed facility store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NewPostgresTx scopes the store to an open transaction.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{db: tx}
}

func (s *Postgres) Create(ctx context.Context, facility *models.Facility) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO facilities (name, capacity, available, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		facility.Name, facility.Capacity, facility.Available, facility.CreatedAt, facility.UpdatedAt,
	).Scan(&facility.ID)
	if err != nil {
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Facility, error) {
	var f models.Facility
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, capacity, available, created_at, updated_at
		 FROM facilities WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.Capacity, &f.Available, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find facility: %w", err)
	}
	return &f, nil
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Facility, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, capacity, available, created_at, updated_at
		 FROM facilities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	var out []*models.Facility
	for rows.Next() {
		var f models.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Capacity, &f.Available, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, id int64, name *string, capacity *int, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities
		 SET name = COALESCE($2, name),
		     available = CASE WHEN $3::int IS NULL THEN available
		                      ELSE $3 - (capacity - available) END,
		     capacity = COALESCE($3, capacity),
		     updated_at = $4
		 WHERE id = $1
		   AND ($3::int IS NULL OR $3 >= capacity - available)`,
		id, name, capacity, now)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	if n == 0 {
		// Either the row is missing or the shrink would underflow occupancy.
		if _, ferr := s.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AcquireSlot decrements the counter with a guarded update so concurrent
// opens on the same facility cannot push it below zero.
func (s *Postgres) AcquireSlot(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities SET available = available - 1, updated_at = NOW()
		 WHERE id = $1 AND available > 0`, id)
	if err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	if n == 0 {
		if _, ferr := s.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return sentinel.ErrCapacityExhausted
	}
	return nil
}

// ReleaseSlot increments the counter, clamped at capacity.
func (s *Postgres) ReleaseSlot(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities SET available = LEAST(available + 1, capacity), updated_at = NOW()
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
