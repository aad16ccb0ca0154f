package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type Service struct {
	repo Repository
	pool *pgxpool.Pool
}

// NewService builds the prescription service. pool may be nil in tests; it is
// only used to open the create transaction.
func NewService(repo Repository, pool *pgxpool.Pool) *Service {
	return &Service{repo: repo, pool: pool}
}

// Create validates and persists the header plus all items. When a pool is
// available, the writes run in one transaction so a failed item insert never
// leaves a headerless or partial prescription.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.Prescriber == "" {
		return fmt.Errorf("prescriber is required")
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, item := range p.Items {
		if item.MedicineName == "" && item.MedicineID == nil {
			return fmt.Errorf("item %d: medicine_id or medicine_name is required", i+1)
		}
		if item.Dosage == "" {
			return fmt.Errorf("item %d: dosage is required", i+1)
		}
		item.Sequence = i + 1
	}
	if p.PrescribedAt.IsZero() {
		p.PrescribedAt = time.Now().UTC()
	}

	if s.pool == nil {
		return s.repo.Create(ctx, p)
	}
	return db.WithTx(ctx, s.pool, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, p)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
