package approval

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrefer/medrefer/internal/domain/account"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns a PostgreSQL-backed approval repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func roleForKind(kind Kind) (account.Role, error) {
	switch kind {
	case KindUser:
		return account.RoleDoctor, nil
	case KindHospital:
		return account.RoleHospital, nil
	default:
		return "", fmt.Errorf("unknown approval kind %q", kind)
	}
}

func (r *repoPG) ListPending(ctx context.Context, kind Kind, limit, offset int) ([]*PendingItem, int, error) {
	role, err := roleForKind(kind)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM account WHERE role = $1 AND approval_status = 'pending'`,
		string(role),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, approval_status, hospital_id, created_at
		FROM account
		WHERE role = $1 AND approval_status = 'pending'
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`,
		string(role), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PendingItem
	for rows.Next() {
		var (
			item      PendingItem
			firstName string
			lastName  string
		)
		if err := rows.Scan(&item.ID, &item.Email, &firstName, &lastName,
			&item.Status, &item.HospitalID, &item.SubmittedAt); err != nil {
			return nil, 0, err
		}
		item.Kind = kind
		item.Name = displayName(firstName, lastName, item.Email)
		items = append(items, &item)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role, approval_status, COUNT(*)
		FROM account
		WHERE role IN ('doctor', 'hospital')
		GROUP BY role, approval_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var role, status string
		var count int
		if err := rows.Scan(&role, &status, &count); err != nil {
			return nil, err
		}

		var counts *KindCounts
		switch account.ParseRole(role) {
		case account.RoleDoctor:
			counts = &stats.Users
		case account.RoleHospital:
			counts = &stats.Hospitals
		default:
			continue
		}

		switch account.ParseApprovalStatus(status) {
		case account.StatusPending:
			counts.Pending = count
		case account.StatusApproved:
			counts.Approved = count
		case account.StatusRejected:
			counts.Rejected = count
		}
	}
	return stats, rows.Err()
}

func displayName(first, last, email string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	default:
		return email
	}
}
