package account

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Role values arrive from storage
// and tokens as free-form strings; ParseRole converts them at the boundary
// so an unrecognized value becomes RoleUnknown instead of leaking through.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleHospital   Role = "hospital"
	RoleDoctor     Role = "doctor"
	RolePatient    Role = "patient"
	RoleUnknown    Role = "unknown"
)

// ParseRole maps a raw role string onto the closed enumeration.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSuperAdmin, RoleHospital, RoleDoctor, RolePatient:
		return Role(s)
	default:
		return RoleUnknown
	}
}

// Valid reports whether the role is a member of the closed enumeration.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleHospital || r == RoleDoctor || r == RolePatient
}

// RequiresApproval reports whether accounts with this role go through the
// human approval workflow. Super admins and patients are implicitly approved.
func (r Role) RequiresApproval() bool {
	return r == RoleHospital || r == RoleDoctor
}

// ApprovalStatus is the state assigned by a human approver to hospital and
// doctor accounts.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
	StatusUnknown  ApprovalStatus = "unknown"
)

// ParseApprovalStatus maps a raw status string onto the closed enumeration.
func ParseApprovalStatus(s string) ApprovalStatus {
	switch ApprovalStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ApprovalStatus(s)
	default:
		return StatusUnknown
	}
}

// Account maps to the account table.
type Account struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Email          string         `db:"email" json:"email"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	Role           Role           `db:"role" json:"role"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`
	FirstName      string         `db:"first_name" json:"first_name"`
	LastName       string         `db:"last_name" json:"last_name"`
	// HospitalID links a doctor account to the hospital account whose
	// admin approves it. Nil for every other role.
	HospitalID   *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	DecisionNote *string    `db:"decision_note" json:"decision_note,omitempty"`
	DecidedBy    *uuid.UUID `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt    *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the human-readable name for status screens and lists.
func (a *Account) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	case a.LastName != "":
		return a.LastName
	default:
		return a.Email
	}
}
