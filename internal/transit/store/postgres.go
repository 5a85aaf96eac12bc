package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"parkgate/internal/transit/models"
	"parkgate/pkg/platform/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Postgres struct {
	db querier
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NewPostgresTx binds the store to an open transaction so transit close and
// slot release share one commit.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{db: tx}
}

const transitColumns = "id, vehicle_id, entry_gate_id, entry_at, exit_gate_id, exit_at, tariff_id, amount_cents, status, facility_id"

func (s *Postgres) Create(ctx context.Context, t *models.Transit) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transits (vehicle_id, entry_gate_id, entry_at, status, facility_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		t.VehicleID, t.EntryGateID, t.EntryAt, t.Status, t.FacilityID,
	).Scan(&t.ID)
	if err != nil {
		// partial unique index on open transits per vehicle
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert transit: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Transit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transitColumns+` FROM transits WHERE id = $1`, id)
	return scanTransit(row)
}

func (s *Postgres) FindOpenByVehicle(ctx context.Context, vehicleID int64) (*models.Transit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transitColumns+` FROM transits WHERE vehicle_id = $1 AND status = $2`,
		vehicleID, models.StatusOpen)
	return scanTransit(row)
}

func (s *Postgres) CountOpenByFacility(ctx context.Context, facilityID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transits WHERE facility_id = $1 AND status = $2`,
		facilityID, models.StatusOpen).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open transits: %w", err)
	}
	return n, nil
}

// Close flips an open transit to closed in a single guarded update. A transit
// that is already closed yields ErrInvalidState, an unknown id ErrNotFound.
func (s *Postgres) Close(ctx context.Context, id int64, exitGateID int64, exitAt time.Time, tariffID int64, amountCents int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transits
		 SET exit_gate_id = $2, exit_at = $3, tariff_id = $4, amount_cents = $5, status = $6
		 WHERE id = $1 AND status = $7`,
		id, exitGateID, exitAt, tariffID, amountCents, models.StatusClosed, models.StatusOpen)
	if err != nil {
		return fmt.Errorf("close transit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close transit rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM transits WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("close transit existence check: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Transit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transitColumns+` FROM transits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transits: %w", err)
	}
	defer rows.Close()
	return scanTransits(rows)
}

func (s *Postgres) FindClosed(ctx context.Context, q ClosedQuery) ([]*models.Transit, error) {
	conds := []string{"status = $1"}
	args := []any{models.StatusClosed}
	if !q.From.IsZero() {
		args = append(args, q.From)
		conds = append(conds, fmt.Sprintf("exit_at >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To)
		conds = append(conds, fmt.Sprintf("exit_at <= $%d", len(args)))
	}
	if q.FacilityID != nil {
		args = append(args, *q.FacilityID)
		conds = append(conds, fmt.Sprintf("facility_id = $%d", len(args)))
	}
	if len(q.VehicleIDs) > 0 {
		args = append(args, q.VehicleIDs)
		conds = append(conds, fmt.Sprintf("vehicle_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + transitColumns + ` FROM transits WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY exit_at`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list closed transits: %w", err)
	}
	defer rows.Close()
	return scanTransits(rows)
}

func scanTransit(row *sql.Row) (*models.Transit, error) {
	var t models.Transit
	err := row.Scan(&t.ID, &t.VehicleID, &t.EntryGateID, &t.EntryAt,
		&t.ExitGateID, &t.ExitAt, &t.TariffID, &t.AmountCents, &t.Status, &t.FacilityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transit: %w", err)
	}
	return &t, nil
}

func scanTransits(rows *sql.Rows) ([]*models.Transit, error) {
	out := make([]*models.Transit, 0)
	for rows.Next() {
		var t models.Transit
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.EntryGateID, &t.EntryAt,
			&t.ExitGateID, &t.ExitAt, &t.TariffID, &t.AmountCents, &t.Status, &t.FacilityID); err != nil {
			return nil, fmt.Errorf("scan transit: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transits: %w", err)
	}
	return out, nil
}
