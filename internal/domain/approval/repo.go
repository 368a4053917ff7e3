package approval

import "context"

// Repository defines the persistence interface for the approval queues.
// Doctor accounts form the user queue; hospital accounts form the hospital
// queue. Both live in the account table.
type Repository interface {
	ListPending(ctx context.Context, kind Kind, limit, offset int) ([]*PendingItem, int, error)
	Stats(ctx context.Context) (*Stats, error)
}
