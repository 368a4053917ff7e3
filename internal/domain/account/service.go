package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidCredentials is returned for a bad email/password pair. The
	// same error covers both cases so callers cannot tell which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactive is returned when a deactivated account attempts to log in.
	ErrInactive = errors.New("account is deactivated")
	// ErrDuplicateEmail is returned when registering an already-used email.
	ErrDuplicateEmail = errors.New("email is already registered")
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Role       string     `json:"role"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	HospitalID *uuid.UUID `json:"hospital_id,omitempty"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. Hospital and doctor accounts start in the
// pending approval state; patient accounts are immediately usable. Super
// admin accounts are provisioned out of band, never through registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	role := ParseRole(in.Role)
	switch role {
	case RoleHospital, RolePatient:
	case RoleDoctor:
		if in.HospitalID == nil {
			return nil, fmt.Errorf("hospital_id is required for doctor registration")
		}
	default:
		return nil, fmt.Errorf("role %q cannot self-register", in.Role)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &Account{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		HospitalID:   in.HospitalID,
		Active:       true,
	}
	if role.RequiresApproval() {
		acct.ApprovalStatus = StatusPending
	} else {
		acct.ApprovalStatus = StatusApproved
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Authenticate verifies credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	acct, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := VerifyPassword(acct.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acct.Active {
		return nil, ErrInactive
	}
	return acct, nil
}

// Get fetches a single account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// SetActive toggles the active flag independently of approval status.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

// List pages through all accounts.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	return s.repo.List(ctx, limit, offset)
}
