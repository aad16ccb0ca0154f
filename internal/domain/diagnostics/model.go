package diagnostics

import (
	"time"

	"github.com/google/uuid"
)

const (
	ModalityRadiology = "radiology"
	ModalityPathology = "pathology"
)

var validModalities = map[string]bool{
	ModalityRadiology: true,
	ModalityPathology: true,
}

// Order statuses.
const (
	StatusOrdered         = "ordered"
	StatusSampleCollected = "sample-collected"
	StatusInProgress      = "in-progress"
	StatusCompleted       = "completed"
	StatusCancelled       = "cancelled"
)

var orderTransitions = map[string]map[string]bool{
	StatusOrdered:         {StatusSampleCollected: true, StatusCancelled: true},
	StatusSampleCollected: {StatusInProgress: true, StatusCancelled: true},
	StatusInProgress:      {StatusCompleted: true, StatusCancelled: true},
}

// CanTransition reports whether an order may move between the given statuses.
func CanTransition(from, to string) bool {
	return orderTransitions[from][to]
}

// LabTest is one catalog entry. Charge, tax, and discount are the defaults
// billed when an order completes against an admission.
type LabTest struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Modality        string    `json:"modality"`
	Charge          float64   `json:"charge"`
	TaxPercent      float64   `json:"tax_percent"`
	DiscountPercent float64   `json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TestOrder struct {
	ID                uuid.UUID  `json:"id"`
	PatientID         uuid.UUID  `json:"patient_id"`
	AdmissionID       *uuid.UUID `json:"admission_id,omitempty"`
	LabTestID         uuid.UUID  `json:"lab_test_id"`
	Status            string     `json:"status"`
	OrderedAt         time.Time  `json:"ordered_at"`
	SampleCollectedAt *time.Time `json:"sample_collected_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ResultText        *string    `json:"result_text,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
