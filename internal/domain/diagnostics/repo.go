package diagnostics

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type LabTestRepository interface {
	Create(ctx context.Context, t *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	Update(ctx context.Context, t *LabTest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, modality string, limit, offset int) ([]*LabTest, int, error)
	ExistingNames(ctx context.Context) (map[string]bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *TestOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*TestOrder, error)
	Update(ctx context.Context, o *TestOrder) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*TestOrder, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*TestOrder, int, error)
}
