// Package approval holds the approval state machine and the administration
// workflow for resolving pending hospital and doctor accounts.
package approval

import "github.com/medrefer/medrefer/internal/domain/account"

// Outcome is the closed set of classification results.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomePending  Outcome = "pending"
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnknown is the fail-closed default for any account shape the
	// classifier does not recognize. Unknown is never treated as approved.
	OutcomeUnknown Outcome = "unknown"
)

// Classification is the user-facing status produced when access is blocked.
type Classification struct {
	Outcome   Outcome  `json:"outcome"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	NextSteps []string `json:"next_steps,omitempty"`
}

// Approved reports whether navigation may proceed.
func (c Classification) Approved() bool {
	return c.Outcome == OutcomeApproved
}

// Classify deterministically maps an account onto an approval outcome and
// the status screen shown while access is blocked. It is pure and total:
// every representable account shape yields a result, never a panic.
//
// Super admins and patients are implicitly approved regardless of any stored
// approval status. Hospital accounts are always pending: the hospital account
// itself awaits Super Admin sign-off, gated more coarsely than its stored
// status field. Doctors follow their stored status.
func Classify(acct *account.Account) Classification {
	if acct == nil {
		return unknownClassification()
	}

	switch acct.Role {
	case account.RoleSuperAdmin, account.RolePatient:
		return Classification{Outcome: OutcomeApproved}

	case account.RoleHospital:
		return Classification{
			Outcome: OutcomePending,
			Title:   "Hospital Approval Pending",
			Message: "Your hospital account is awaiting Super Admin approval. You will be able to access the platform once it has been reviewed.",
			NextSteps: []string{
				"Check back later or use Refresh Status.",
				"Contact platform support if your request has been pending for more than a few days.",
			},
		}

	case account.RoleDoctor:
		switch acct.ApprovalStatus {
		case account.StatusApproved:
			return Classification{Outcome: OutcomeApproved}
		case account.StatusPending:
			return Classification{
				Outcome: OutcomePending,
				Title:   "Doctor Approval Pending",
				Message: "Your doctor account is awaiting approval from your Hospital Admin.",
				NextSteps: []string{
					"Check back later or use Refresh Status.",
					"Contact your hospital administrator to follow up on your request.",
				},
			}
		case account.StatusRejected:
			return Classification{
				Outcome: OutcomeRejected,
				Title:   "Registration Rejected",
				Message: "Your registration was rejected by the Hospital Admin.",
				NextSteps: []string{
					"Contact your hospital administrator for details about the decision.",
				},
			}
		default:
			return unknownClassification()
		}

	default:
		return unknownClassification()
	}
}

func unknownClassification() Classification {
	return Classification{
		Outcome: OutcomeUnknown,
		Title:   "Account Status Unavailable",
		Message: "We could not determine the status of your account. Please try again or contact support.",
		NextSteps: []string{
			"Use Refresh Status to try again.",
			"Contact platform support if the problem persists.",
		},
	}
}
