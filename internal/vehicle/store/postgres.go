package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"parkgate/internal/vehicle/models"
	"parkgate/pkg/platform/sentinel"
)

// Postgres persists vehicles and vehicle types in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateType(ctx context.Context, t *models.VehicleType) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO vehicle_types (name) VALUES ($1) RETURNING id`, t.Name,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert vehicle type: %w", err)
	}
	return nil
}

func (s *Postgres) FindTypeByID(ctx context.Context, id int64) (*models.VehicleType, error) {
	var t models.VehicleType
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM vehicle_types WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle type: %w", err)
	}
	return &t, nil
}

func (s *Postgres) FindAllTypes(ctx context.Context) ([]*models.VehicleType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM vehicle_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicle types: %w", err)
	}
	defer rows.Close()

	var out []*models.VehicleType
	for rows.Next() {
		var t models.VehicleType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan vehicle type: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Postgres) Create(ctx context.Context, v *models.Vehicle) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO vehicles (plate, vehicle_type_id, created_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		v.Plate, v.VehicleTypeID, v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.QueryRowContext(ctx,
		`SELECT id, plate, vehicle_type_id, created_at FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.Plate, &v.VehicleTypeID, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

func (s *Postgres) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.QueryRowContext(ctx,
		`SELECT id, plate, vehicle_type_id, created_at FROM vehicles WHERE plate = $1`, plate,
	).Scan(&v.ID, &v.Plate, &v.VehicleTypeID, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle by plate: %w", err)
	}
	return &v, nil
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plate, vehicle_type_id, created_at FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []*models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.VehicleTypeID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
