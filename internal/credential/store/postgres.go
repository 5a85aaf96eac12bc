package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"parkgate/internal/credential/models"
	"parkgate/pkg/platform/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists operating credentials in PostgreSQL.
type Postgres struct {
	db querier
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NewPostgresTx scopes the store to an open transaction so credential
// creation can share the gate-provisioning unit of work.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{db: tx}
}

func (s *Postgres) Create(ctx context.Context, cred *models.OperatingCredential) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO operating_credentials (gate_id, name, username, role, secret_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		cred.GateID, cred.Name, cred.Username, cred.Role, cred.SecretHash, cred.CreatedAt,
	).Scan(&cred.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert operating credential: %w", err)
	}
	return nil
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (*models.OperatingCredential, error) {
	var c models.OperatingCredential
	err := s.db.QueryRowContext(ctx,
		`SELECT id, gate_id, name, username, role, secret_hash, created_at
		 FROM operating_credentials WHERE username = $1`, username,
	).Scan(&c.ID, &c.GateID, &c.Name, &c.Username, &c.Role, &c.SecretHash, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find credential by username: %w", err)
	}
	return &c, nil
}

func (s *Postgres) FindByGate(ctx context.Context, gateID int64) (*models.OperatingCredential, error) {
	var c models.OperatingCredential
	err := s.db.QueryRowContext(ctx,
		`SELECT id, gate_id, name, username, role, secret_hash, created_at
		 FROM operating_credentials WHERE gate_id = $1`, gateID,
	).Scan(&c.ID, &c.GateID, &c.Name, &c.Username, &c.Role, &c.SecretHash, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find credential by gate: %w", err)
	}
	return &c, nil
}

func (s *Postgres) DeleteByGate(ctx context.Context, gateID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM operating_credentials WHERE gate_id = $1`, gateID); err != nil {
		return fmt.Errorf("delete credential by gate: %w", err)
	}
	return nil
}
