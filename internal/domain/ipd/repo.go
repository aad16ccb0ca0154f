package ipd

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an admission or payment does not exist in the
// caller's tenant.
var ErrNotFound = errors.New("not found")

type AdmissionRepository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	Update(ctx context.Context, a *Admission) error
	List(ctx context.Context, status string, limit, offset int) ([]*Admission, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error)
	NextAdmissionNumber(ctx context.Context) (string, error)
}

type ChargeRepository interface {
	Create(ctx context.Context, c *ChargeEntry) error
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*ChargeEntry, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *PaymentEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentEntry, error)
	// ListByAdmission returns non-deleted payments only.
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*PaymentEntry, error)
	// SoftDelete marks the payment deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID, admissionID uuid.UUID) error
}
