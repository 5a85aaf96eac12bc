package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parkgate/internal/gate/models"
	"parkgate/pkg/platform/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists gates in PostgreSQL.
type Postgres struct {
	db querier
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NewPostgresTx scopes the store to an open transaction for the provisioning
// unit of work.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{db: tx}
}

const gateColumns = `id, direction, bidirectional, facility_id, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, gate *models.Gate) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO gates (direction, bidirectional, facility_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		gate.Direction, gate.Bidirectional, gate.FacilityID, gate.CreatedAt, gate.UpdatedAt,
	).Scan(&gate.ID)
	if err != nil {
		return fmt.Errorf("insert gate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Gate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE id = $1`, id)
	return scanGate(row)
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Gate, error) {
	return s.query(ctx, `SELECT `+gateColumns+` FROM gates ORDER BY id`)
}

func (s *Postgres) FindByFacility(ctx context.Context, facilityID int64) ([]*models.Gate, error) {
	return s.query(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE facility_id = $1 ORDER BY id`, facilityID)
}

func (s *Postgres) FindByDirection(ctx context.Context, direction models.Direction) ([]*models.Gate, error) {
	return s.query(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE direction = $1 ORDER BY id`, direction)
}

func (s *Postgres) FindBidirectional(ctx context.Context) ([]*models.Gate, error) {
	return s.query(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE bidirectional ORDER BY id`)
}

func (s *Postgres) Update(ctx context.Context, id int64, bidirectional *bool, facilityID *int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE gates
		 SET bidirectional = COALESCE($2, bidirectional),
		     facility_id = COALESCE($3, facility_id),
		     updated_at = $4
		 WHERE id = $1`,
		id, bidirectional, facilityID, now)
	if err != nil {
		return fmt.Errorf("update gate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update gate: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM gates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete gate: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteByFacility(ctx context.Context, facilityID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM gates WHERE facility_id = $1`, facilityID)
	if err != nil {
		return false, fmt.Errorf("delete gates by facility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete gates by facility: %w", err)
	}
	return n > 0, nil
}

func (s *Postgres) query(ctx context.Context, q string, args ...any) ([]*models.Gate, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query gates: %w", err)
	}
	defer rows.Close()

	var out []*models.Gate
	for rows.Next() {
		var g models.Gate
		if err := rows.Scan(&g.ID, &g.Direction, &g.Bidirectional, &g.FacilityID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gate: %w", err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func scanGate(row *sql.Row) (*models.Gate, error) {
	var g models.Gate
	err := row.Scan(&g.ID, &g.Direction, &g.Bidirectional, &g.FacilityID, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan gate: %w", err)
	}
	return &g, nil
}
