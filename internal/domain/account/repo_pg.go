package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const acctColumns = `id, email, password_hash, role, approval_status, first_name, last_name,
	hospital_id, active, decision_note, decided_by, decided_at, created_at, updated_at`

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a PostgreSQL-backed account repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, acct *Account) error {
	acct.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account (
			id, email, password_hash, role, approval_status,
			first_name, last_name, hospital_id, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		acct.ID, acct.Email, acct.PasswordHash, string(acct.Role), string(acct.ApprovalStatus),
		acct.FirstName, acct.LastName, acct.HospitalID, acct.Active,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+acctColumns+` FROM account WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+acctColumns+` FROM account WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, acct *Account) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE account SET
			email = $2, role = $3, approval_status = $4,
			first_name = $5, last_name = $6, hospital_id = $7, active = $8,
			decision_note = $9, decided_by = $10, decided_at = $11,
			updated_at = NOW()
		WHERE id = $1`,
		acct.ID, acct.Email, string(acct.Role), string(acct.ApprovalStatus),
		acct.FirstName, acct.LastName, acct.HospitalID, acct.Active,
		acct.DecisionNote, acct.DecidedBy, acct.DecidedAt,
	)
	return err
}

func (r *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE account SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+acctColumns+` FROM account ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accts []*Account
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		accts = append(accts, a)
	}
	return accts, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *repoPG) scan(row rowScanner) (*Account, error) {
	a, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *repoPG) scanRow(row rowScanner) (*Account, error) {
	var a Account
	var role, status string
	if err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &role, &status, &a.FirstName, &a.LastName,
		&a.HospitalID, &a.Active, &a.DecisionNote, &a.DecidedBy, &a.DecidedAt,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Role and status are converted at the storage boundary so page code
	// only ever sees the closed enumerations.
	a.Role = ParseRole(role)
	a.ApprovalStatus = ParseApprovalStatus(status)
	return &a, nil
}
