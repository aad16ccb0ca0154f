package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// allowedTransitions defines the legal status moves. A terminal status has no
// outgoing entries.
var allowedTransitions = map[string]map[string]bool{
	StatusScheduled: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

type Appointment struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	Practitioner string    `json:"practitioner"`
	Department   *string   `json:"department,omitempty"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	DurationMin  int       `json:"duration_min"`
	Status       string    `json:"status"`
	Reason       *string   `json:"reason,omitempty"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
