package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID            uuid.UUID           `json:"id"`
	PatientID     uuid.UUID           `json:"patient_id"`
	Prescriber    string              `json:"prescriber"`
	PrescribedAt  time.Time           `json:"prescribed_at"`
	DiagnosisNote *string             `json:"diagnosis_note,omitempty"`
	Items         []*PrescriptionItem `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PrescriptionItem is one medication line. MedicineID links to the pharmacy
// catalog when known; MedicineName carries free text otherwise.
type PrescriptionItem struct {
	ID             uuid.UUID  `json:"id"`
	PrescriptionID uuid.UUID  `json:"prescription_id"`
	Sequence       int        `json:"sequence"`
	MedicineID     *uuid.UUID `json:"medicine_id,omitempty"`
	MedicineName   string     `json:"medicine_name"`
	Dosage         string     `json:"dosage"`
	Frequency      string     `json:"frequency"`
	DurationDays   int        `json:"duration_days"`
	Instructions   *string    `json:"instructions,omitempty"`
}
