package approval

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two approval queues.
type Kind string

const (
	KindUser     Kind = "user"
	KindHospital Kind = "hospital"
)

// PendingItem is a read projection of an account awaiting approval. It is
// fetched per page by the administration workflow and never owned client-side.
type PendingItem struct {
	ID          uuid.UUID  `json:"id"`
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	HospitalID  *uuid.UUID `json:"hospital_id,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// KindCounts holds the aggregate counts per status for one queue.
type KindCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Stats aggregates approval counts per kind. Stats are fetched independently
// of the paginated lists and are only eventually consistent with them.
type Stats struct {
	Users     KindCounts `json:"users"`
	Hospitals KindCounts `json:"hospitals"`
}
