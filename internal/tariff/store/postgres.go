package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"parkgate/internal/tariff/models"
	"parkgate/pkg/platform/sentinel"
)

// Postgres persists tariff rules in PostgreSQL. A unique index over
// (facility_id, vehicle_type_id, time_band, day_band) backs the ambiguity
// rejection.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const ruleColumns = `id, facility_id, vehicle_type_id, amount_cents, time_band, day_band, created_at, updated_at`

func (s *Postgres) CreateIfUnambiguous(ctx context.Context, rule *models.Rule) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tariff_rules (facility_id, vehicle_type_id, amount_cents, time_band, day_band, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		rule.FacilityID, rule.VehicleTypeID, rule.AmountCents, rule.TimeBand, rule.DayBand, rule.CreatedAt, rule.UpdatedAt,
	).Scan(&rule.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert tariff rule: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Rule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM tariff_rules WHERE id = $1`, id)
	return scanRule(row)
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ruleColumns+` FROM tariff_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tariff rules: %w", err)
	}
	defer rows.Close()

	var out []*models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.FacilityID, &r.VehicleTypeID, &r.AmountCents, &r.TimeBand, &r.DayBand, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tariff rule: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *Postgres) FindByKey(ctx context.Context, key models.Key) (*models.Rule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM tariff_rules
		 WHERE facility_id = $1 AND vehicle_type_id = $2 AND time_band = $3 AND day_band = $4`,
		key.FacilityID, key.VehicleTypeID, key.TimeBand, key.DayBand)
	return scanRule(row)
}

func (s *Postgres) UpdateAmount(ctx context.Context, id int64, amountCents int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tariff_rules SET amount_cents = $2, updated_at = $3 WHERE id = $1`,
		id, amountCents, now)
	if err != nil {
		return fmt.Errorf("update tariff rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tariff rule: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tariff_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tariff rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tariff rule: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanRule(row *sql.Row) (*models.Rule, error) {
	var r models.Rule
	err := row.Scan(&r.ID, &r.FacilityID, &r.VehicleTypeID, &r.AmountCents, &r.TimeBand, &r.DayBand, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tariff rule: %w", err)
	}
	return &r, nil
}
