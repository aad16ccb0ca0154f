package ipd

import (
	"time"

	"github.com/google/uuid"
)

// Admission statuses.
const (
	StatusAdmitted    = "admitted"
	StatusDischarged  = "discharged"
	StatusTransferred = "transferred"
)

// Payment modes. The UI historically sends "Credit Limit" for credit
// deposits; it is normalized to ModeCredit before storage.
const (
	ModeCash   = "Cash"
	ModeCard   = "Card"
	ModeUPI    = "UPI"
	ModeCredit = "Credit"
)

type Admission struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	AdmissionNumber string     `json:"admission_number"`
	Ward            string     `json:"ward"`
	Bed             string     `json:"bed"`
	DoctorID        *uuid.UUID `json:"doctor_id,omitempty"`
	Diagnosis       *string    `json:"diagnosis,omitempty"`
	Status          string     `json:"status"`
	AdmittedAt      time.Time  `json:"admitted_at"`
	DischargedAt    *time.Time `json:"discharged_at,omitempty"`
	Note            *string    `json:"note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ChargeEntry is an append-only billing line against an admission.
type ChargeEntry struct {
	ID              uuid.UUID `json:"id"`
	AdmissionID     uuid.UUID `json:"admission_id"`
	Description     string    `json:"description"`
	Amount          float64   `json:"amount"`
	TaxPercent      float64   `json:"tax_percent"`
	DiscountPercent float64   `json:"discount_percent"`
	ChargedAt       time.Time `json:"charged_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// EffectiveAmount applies tax and discount to the base amount.
func (c *ChargeEntry) EffectiveAmount() float64 {
	return c.Amount + c.Amount*c.TaxPercent/100 - c.Amount*c.DiscountPercent/100
}

// PaymentEntry is one money movement against an admission. ToCredit rows add
// to the patient's credit balance and are never counted as payment. Rows are
// soft-deleted only, preserving the audit trail.
type PaymentEntry struct {
	ID          uuid.UUID `json:"id"`
	AdmissionID uuid.UUID `json:"admission_id"`
	Amount      float64   `json:"amount"`
	Mode        string    `json:"mode"`
	ToCredit    bool      `json:"to_credit"`
	Reference   *string   `json:"reference,omitempty"`
	Note        *string   `json:"note,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// BillingSummary is the computed financial position of one admission.
type BillingSummary struct {
	TotalCharges         float64 `json:"totalCharges"`
	TotalPaid            float64 `json:"totalPaid"`
	AvailableCreditLimit float64 `json:"availableCreditLimit"`
	UsedCredit           float64 `json:"usedCredit"`
	Payable              float64 `json:"payable"`
}

// ComputeBillingSummary aggregates charges and payments in a single pass.
// Deleted payments are excluded. A to_credit row only grows the credit
// balance; a mode=Credit row counts as both paid and used credit. The
// available credit balance is not clamped and may go negative when credit
// payments exceed deposits. Payable never goes below zero.
func ComputeBillingSummary(charges []*ChargeEntry, payments []*PaymentEntry) BillingSummary {
	var s BillingSummary
	var creditAdded float64

	for _, c := range charges {
		s.TotalCharges += c.EffectiveAmount()
	}

	for _, p := range payments {
		if p.IsDeleted {
			continue
		}
		if p.ToCredit {
			creditAdded += p.Amount
			continue
		}
		s.TotalPaid += p.Amount
		if p.Mode == ModeCredit {
			s.UsedCredit += p.Amount
		}
	}

	s.AvailableCreditLimit = creditAdded - s.UsedCredit
	s.Payable = s.TotalCharges - s.TotalPaid
	if s.Payable < 0 {
		s.Payable = 0
	}
	return s
}

// NormalizeMode maps UI payment-mode labels to stored modes.
func NormalizeMode(mode string) string {
	if mode == "Credit Limit" {
		return ModeCredit
	}
	return mode
}
