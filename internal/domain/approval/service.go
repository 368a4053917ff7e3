package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medrefer/medrefer/internal/domain/account"
)

var (
	// ErrReasonRequired is returned when a rejection carries no reason.
	// The check runs before any persistence call is issued.
	ErrReasonRequired = errors.New("a rejection reason is required")
	// ErrNotPending is returned when the target account has already been
	// decided; approval transitions happen exactly once.
	ErrNotPending = errors.New("account is not pending approval")
	// ErrNotAuthorized is returned when the approver may not decide the item.
	ErrNotAuthorized = errors.New("not authorized to decide this item")
)

// Service resolves pending accounts to approved or rejected and serves the
// paginated queues the administration screens page through.
type Service struct {
	accounts account.Repository
	queue    Repository
}

func NewService(accounts account.Repository, queue Repository) *Service {
	return &Service{accounts: accounts, queue: queue}
}

// ListPending returns one page of the given queue plus the total item count.
func (s *Service) ListPending(ctx context.Context, kind Kind, limit, offset int) ([]*PendingItem, int, error) {
	return s.queue.ListPending(ctx, kind, limit, offset)
}

// Stats returns aggregate counts per status per kind.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.queue.Stats(ctx)
}

// Approve transitions a pending account to approved. Hospitals are decided
// by super admins; doctors by the admin of the hospital they registered
// under. The optional message is stored with the decision.
func (s *Service) Approve(ctx context.Context, approver *account.Account, kind Kind, id uuid.UUID, message string) error {
	return s.decide(ctx, approver, kind, id, account.StatusApproved, strings.TrimSpace(message))
}

// Reject transitions a pending account to rejected. A non-empty reason is a
// precondition checked before anything is persisted.
func (s *Service) Reject(ctx context.Context, approver *account.Account, kind Kind, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	return s.decide(ctx, approver, kind, id, account.StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, approver *account.Account, kind Kind, id uuid.UUID, status account.ApprovalStatus, note string) error {
	role, err := roleForKind(kind)
	if err != nil {
		return err
	}

	target, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role != role {
		return fmt.Errorf("account %s is not in the %s queue", id, kind)
	}
	if target.ApprovalStatus != account.StatusPending {
		return ErrNotPending
	}
	if err := s.authorize(approver, kind, target); err != nil {
		return err
	}

	now := time.Now()
	target.ApprovalStatus = status
	target.DecidedBy = &approver.ID
	target.DecidedAt = &now
	if note != "" {
		target.DecisionNote = &note
	}
	return s.accounts.Update(ctx, target)
}

func (s *Service) authorize(approver *account.Account, kind Kind, target *account.Account) error {
	if approver == nil {
		return ErrNotAuthorized
	}
	switch kind {
	case KindHospital:
		if approver.Role != account.RoleSuperAdmin {
			return ErrNotAuthorized
		}
	case KindUser:
		if approver.Role != account.RoleHospital {
			return ErrNotAuthorized
		}
		if target.HospitalID == nil || *target.HospitalID != approver.ID {
			return ErrNotAuthorized
		}
	default:
		return ErrNotAuthorized
	}
	return nil
}
