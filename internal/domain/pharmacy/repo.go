package pharmacy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type MasterRepository interface {
	Create(ctx context.Context, kind string, m *Master) error
	GetByID(ctx context.Context, kind string, id uuid.UUID) (*Master, error)
	List(ctx context.Context, kind string) ([]*Master, error)
	Delete(ctx context.Context, kind string, id uuid.UUID) error
	// Index returns the case-sensitive name -> id map for one kind.
	Index(ctx context.Context, kind string) (map[string]uuid.UUID, error)
}

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error)
	// ExistingNames returns all medicine names lower-cased, for duplicate
	// checks against persisted records.
	ExistingNames(ctx context.Context) (map[string]bool, error)
}

type StockRepository interface {
	Create(ctx context.Context, s *StockEntry) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*StockEntry, error)
	TotalQuantity(ctx context.Context, medicineID uuid.UUID) (int, error)
}
