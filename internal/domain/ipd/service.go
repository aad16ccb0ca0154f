package ipd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	admissions AdmissionRepository
	charges    ChargeRepository
	payments   PaymentRepository
}

func NewService(adm AdmissionRepository, ch ChargeRepository, pay PaymentRepository) *Service {
	return &Service{admissions: adm, charges: ch, payments: pay}
}

var validAdmissionStatuses = map[string]bool{
	StatusAdmitted: true, StatusDischarged: true, StatusTransferred: true,
}

func (s *Service) AdmitPatient(ctx context.Context, a *Admission) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Ward == "" {
		return fmt.Errorf("ward is required")
	}
	if a.Status == "" {
		a.Status = StatusAdmitted
	}
	if !validAdmissionStatuses[a.Status] {
		return fmt.Errorf("invalid admission status: %s", a.Status)
	}
	if a.AdmittedAt.IsZero() {
		a.AdmittedAt = time.Now().UTC()
	}
	if a.AdmissionNumber == "" {
		num, err := s.admissions.NextAdmissionNumber(ctx)
		if err != nil {
			return err
		}
		a.AdmissionNumber = num
	}
	return s.admissions.Create(ctx, a)
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *Service) ListAdmissions(ctx context.Context, status string, limit, offset int) ([]*Admission, int, error) {
	if status != "" && !validAdmissionStatuses[status] {
		return nil, 0, fmt.Errorf("invalid admission status: %s", status)
	}
	return s.admissions.List(ctx, status, limit, offset)
}

func (s *Service) ListAdmissionsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) DischargeAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := s.admissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusDischarged {
		return nil, fmt.Errorf("admission already discharged")
	}
	now := time.Now().UTC()
	a.Status = StatusDischarged
	a.DischargedAt = &now
	if err := s.admissions.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) AddCharge(ctx context.Context, c *ChargeEntry) error {
	if _, err := s.admissions.GetByID(ctx, c.AdmissionID); err != nil {
		return err
	}
	if c.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if c.TaxPercent < 0 || c.TaxPercent > 100 {
		return fmt.Errorf("tax_percent must be between 0 and 100")
	}
	if c.DiscountPercent < 0 || c.DiscountPercent > 100 {
		return fmt.Errorf("discount_percent must be between 0 and 100")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if c.ChargedAt.IsZero() {
		c.ChargedAt = time.Now().UTC()
	}
	return s.charges.Create(ctx, c)
}

func (s *Service) ListCharges(ctx context.Context, admissionID uuid.UUID) ([]*ChargeEntry, error) {
	return s.charges.ListByAdmission(ctx, admissionID)
}

// RecordPayment validates the owning admission and appends a single payment
// row. The UI label "Credit Limit" is stored as mode "Credit".
func (s *Service) RecordPayment(ctx context.Context, p *PaymentEntry) error {
	if _, err := s.admissions.GetByID(ctx, p.AdmissionID); err != nil {
		return err
	}
	if p.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	p.Mode = NormalizeMode(p.Mode)
	if p.Mode == "" && !p.ToCredit {
		return fmt.Errorf("mode is required")
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}
	return s.payments.Create(ctx, p)
}

func (s *Service) ListPayments(ctx context.Context, admissionID uuid.UUID) ([]*PaymentEntry, error) {
	return s.payments.ListByAdmission(ctx, admissionID)
}

// DeletePayment marks the payment deleted. The row stays in place and is
// excluded from every aggregate from that point on.
func (s *Service) DeletePayment(ctx context.Context, id, admissionID uuid.UUID) error {
	return s.payments.SoftDelete(ctx, id, admissionID)
}

// BillingSummary loads the admission's charges and live payments and folds
// them into the computed summary.
func (s *Service) BillingSummary(ctx context.Context, admissionID uuid.UUID) (*BillingSummary, error) {
	if _, err := s.admissions.GetByID(ctx, admissionID); err != nil {
		return nil, err
	}
	charges, err := s.charges.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	summary := ComputeBillingSummary(charges, payments)
	return &summary, nil
}
