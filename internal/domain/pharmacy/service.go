package pharmacy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/importer"
)

// MedicineImportColumns is the fixed column order of a medicine upload.
var MedicineImportColumns = []string{"name", "category", "company", "unit", "group", "notes"}

// medicineImportSchema drives the bulk validator. Group and notes are
// optional; name is the natural key.
var medicineImportSchema = importer.Schema{
	Columns: []importer.Column{
		{Name: "name", Required: true},
		{Name: "category", Required: true, Reference: MasterCategory},
		{Name: "company", Required: true, Reference: MasterCompany},
		{Name: "unit", Required: true, Reference: MasterUnit},
		{Name: "group", Reference: MasterGroup},
		{Name: "notes"},
	},
	NaturalKey: "name",
}

type Service struct {
	masters   MasterRepository
	medicines MedicineRepository
	stock     StockRepository
	pool      *pgxpool.Pool
}

// NewService builds the pharmacy service. pool may be nil in tests; it is
// only used to wrap import inserts in one transaction.
func NewService(masters MasterRepository, medicines MedicineRepository, stock StockRepository, pool *pgxpool.Pool) *Service {
	return &Service{masters: masters, medicines: medicines, stock: stock, pool: pool}
}

// -- Masters --

func (s *Service) CreateMaster(ctx context.Context, kind, name string) (*Master, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	idx, err := s.masters.Index(ctx, kind)
	if err != nil {
		return nil, err
	}
	if _, exists := idx[name]; exists {
		return nil, fmt.Errorf("%s %q already exists", kind, name)
	}
	m := &Master{Name: name}
	if err := s.masters.Create(ctx, kind, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMasters(ctx context.Context, kind string) ([]*Master, error) {
	return s.masters.List(ctx, kind)
}

func (s *Service) DeleteMaster(ctx context.Context, kind string, id uuid.UUID) error {
	return s.masters.Delete(ctx, kind, id)
}

// -- Medicines --

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.CategoryID == uuid.Nil || m.CompanyID == uuid.Nil || m.UnitID == uuid.Nil {
		return fmt.Errorf("category_id, company_id and unit_id are required")
	}
	return s.medicines.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if _, err := s.medicines.GetByID(ctx, m.ID); err != nil {
		return err
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.medicines.Update(ctx, m)
}

func (s *Service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	return s.medicines.Delete(ctx, id)
}

func (s *Service) ListMedicines(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	return s.medicines.List(ctx, query, limit, offset)
}

// -- Stock --

func (s *Service) AddStock(ctx context.Context, e *StockEntry) error {
	if _, err := s.medicines.GetByID(ctx, e.MedicineID); err != nil {
		return err
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if e.PurchasePrice < 0 || e.SalePrice < 0 {
		return fmt.Errorf("prices must not be negative")
	}
	return s.stock.Create(ctx, e)
}

func (s *Service) ListStock(ctx context.Context, medicineID uuid.UUID) ([]*StockEntry, error) {
	return s.stock.ListByMedicine(ctx, medicineID)
}

func (s *Service) StockQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	return s.stock.TotalQuantity(ctx, medicineID)
}

// -- Bulk import --

// ImportMedicines validates the uploaded grid (header row included) and, only
// when every row passes, inserts all of them inside one transaction. Any row
// error means zero inserts.
func (s *Service) ImportMedicines(ctx context.Context, grid [][]string) (importer.Report, error) {
	refs := make(map[string]importer.ReferenceIndex, len(MasterKinds))
	for _, kind := range MasterKinds {
		idx, err := s.masters.Index(ctx, kind)
		if err != nil {
			return importer.Report{}, fmt.Errorf("loading %s master: %w", kind, err)
		}
		refs[kind] = idx
	}

	existing, err := s.medicines.ExistingNames(ctx)
	if err != nil {
		return importer.Report{}, fmt.Errorf("loading existing medicines: %w", err)
	}

	res := importer.Validate(grid, medicineImportSchema, refs, existing)
	if !res.OK() {
		return res.Report(0), nil
	}

	insert := func(txCtx context.Context) error {
		for _, row := range res.Valid {
			m := &Medicine{
				Name:       row.Values["name"],
				CategoryID: row.Refs["category"],
				CompanyID:  row.Refs["company"],
				UnitID:     row.Refs["unit"],
			}
			if gid, ok := row.Refs["group"]; ok {
				m.GroupID = &gid
			}
			if notes := row.Values["notes"]; notes != "" {
				m.Notes = &notes
			}
			if err := s.medicines.Create(txCtx, m); err != nil {
				return fmt.Errorf("inserting row %d: %w", row.Number, err)
			}
		}
		return nil
	}

	if s.pool == nil {
		err = insert(ctx)
	} else {
		err = db.WithTx(ctx, s.pool, insert)
	}
	if err != nil {
		return importer.Report{}, err
	}
	return res.Report(len(res.Valid)), nil
}
