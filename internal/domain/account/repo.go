package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for accounts.
type Repository interface {
	Create(ctx context.Context, acct *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, acct *Account) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, limit, offset int) ([]*Account, int, error)
}
