package pharmacy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockMasterRepo struct {
	items map[string]map[uuid.UUID]*Master
}

func newMockMasterRepo() *mockMasterRepo {
	m := &mockMasterRepo{items: make(map[string]map[uuid.UUID]*Master)}
	for _, kind := range MasterKinds {
		m.items[kind] = make(map[uuid.UUID]*Master)
	}
	return m
}

func (m *mockMasterRepo) seed(t *testing.T, kind string, names ...string) {
	t.Helper()
	for _, name := range names {
		master := &Master{Name: name}
		if err := m.Create(context.Background(), kind, master); err != nil {
			t.Fatalf("seed %s %s: %v", kind, name, err)
		}
	}
}

func (m *mockMasterRepo) Create(_ context.Context, kind string, master *Master) error {
	master.ID = uuid.New()
	master.CreatedAt = time.Now()
	m.items[kind][master.ID] = master
	return nil
}

func (m *mockMasterRepo) GetByID(_ context.Context, kind string, id uuid.UUID) (*Master, error) {
	master, ok := m.items[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return master, nil
}

func (m *mockMasterRepo) List(_ context.Context, kind string) ([]*Master, error) {
	var result []*Master
	for _, master := range m.items[kind] {
		result = append(result, master)
	}
	return result, nil
}

func (m *mockMasterRepo) Delete(_ context.Context, kind string, id uuid.UUID) error {
	if _, ok := m.items[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.items[kind], id)
	return nil
}

func (m *mockMasterRepo) Index(_ context.Context, kind string) (map[string]uuid.UUID, error) {
	idx := make(map[string]uuid.UUID)
	for _, master := range m.items[kind] {
		idx[master.Name] = master.ID
	}
	return idx, nil
}

type mockMedicineRepo struct {
	items map[uuid.UUID]*Medicine
}

func newMockMedicineRepo() *mockMedicineRepo {
	return &mockMedicineRepo{items: make(map[uuid.UUID]*Medicine)}
}

func (m *mockMedicineRepo) Create(_ context.Context, med *Medicine) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.items[med.ID] = med
	return nil
}

func (m *mockMedicineRepo) GetByID(_ context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return med, nil
}

func (m *mockMedicineRepo) Update(_ context.Context, med *Medicine) error {
	m.items[med.ID] = med
	return nil
}

func (m *mockMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockMedicineRepo) List(_ context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	var result []*Medicine
	for _, med := range m.items {
		if query == "" || strings.Contains(strings.ToLower(med.Name), strings.ToLower(query)) {
			result = append(result, med)
		}
	}
	return result, len(result), nil
}

func (m *mockMedicineRepo) ExistingNames(_ context.Context) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, med := range m.items {
		names[strings.ToLower(med.Name)] = true
	}
	return names, nil
}

type mockStockRepo struct {
	items map[uuid.UUID]*StockEntry
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{items: make(map[uuid.UUID]*StockEntry)}
}

func (m *mockStockRepo) Create(_ context.Context, s *StockEntry) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.items[s.ID] = s
	return nil
}

func (m *mockStockRepo) ListByMedicine(_ context.Context, medicineID uuid.UUID) ([]*StockEntry, error) {
	var result []*StockEntry
	for _, s := range m.items {
		if s.MedicineID == medicineID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStockRepo) TotalQuantity(_ context.Context, medicineID uuid.UUID) (int, error) {
	total := 0
	for _, s := range m.items {
		if s.MedicineID == medicineID {
			total += s.Quantity
		}
	}
	return total, nil
}

func newTestService(t *testing.T) (*Service, *mockMasterRepo, *mockMedicineRepo, *mockStockRepo) {
	t.Helper()
	masters := newMockMasterRepo()
	medicines := newMockMedicineRepo()
	stock := newMockStockRepo()
	masters.seed(t, MasterCategory, "Analgesic", "Antibiotic")
	masters.seed(t, MasterCompany, "Acme Pharma")
	masters.seed(t, MasterUnit, "Tablet", "Capsule")
	masters.seed(t, MasterGroup, "OTC")
	return NewService(masters, medicines, stock, nil), masters, medicines, stock
}

func importHeader() []string {
	return []string{"name", "category", "company", "unit", "group", "notes"}
}

// -- Tests --

func TestCreateMasterRejectsDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.CreateMaster(context.Background(), MasterCategory, "Analgesic"); err == nil {
		t.Error("expected duplicate master to be rejected")
	}
	if _, err := svc.CreateMaster(context.Background(), MasterCategory, "Antiviral"); err != nil {
		t.Errorf("new master rejected: %v", err)
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	svc, masters, _, _ := newTestService(t)
	idx, _ := masters.Index(context.Background(), MasterCategory)
	catID := idx["Analgesic"]

	if err := svc.CreateMedicine(context.Background(), &Medicine{Name: "X"}); err == nil {
		t.Error("expected error for missing master ids")
	}
	if err := svc.CreateMedicine(context.Background(), &Medicine{
		CategoryID: catID, CompanyID: uuid.New(), UnitID: uuid.New(),
	}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestAddStockValidation(t *testing.T) {
	svc, masters, medicines, _ := newTestService(t)
	cat, _ := masters.Index(context.Background(), MasterCategory)
	com, _ := masters.Index(context.Background(), MasterCompany)
	unit, _ := masters.Index(context.Background(), MasterUnit)

	med := &Medicine{Name: "Paracetamol", CategoryID: cat["Analgesic"], CompanyID: com["Acme Pharma"], UnitID: unit["Tablet"]}
	if err := medicines.Create(context.Background(), med); err != nil {
		t.Fatalf("create medicine: %v", err)
	}

	if err := svc.AddStock(context.Background(), &StockEntry{MedicineID: uuid.New(), Quantity: 10}); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound for unknown medicine", err)
	}
	if err := svc.AddStock(context.Background(), &StockEntry{MedicineID: med.ID, Quantity: 0}); err == nil {
		t.Error("expected error for non-positive quantity")
	}
	if err := svc.AddStock(context.Background(), &StockEntry{MedicineID: med.ID, Quantity: 10, SalePrice: -1}); err == nil {
		t.Error("expected error for negative price")
	}
	if err := svc.AddStock(context.Background(), &StockEntry{MedicineID: med.ID, Quantity: 10, PurchasePrice: 5, SalePrice: 8}); err != nil {
		t.Errorf("valid stock entry rejected: %v", err)
	}

	total, err := svc.StockQuantity(context.Background(), med.ID)
	if err != nil {
		t.Fatalf("StockQuantity: %v", err)
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
}

func TestImportMedicinesAllValid(t *testing.T) {
	svc, _, medicines, _ := newTestService(t)
	grid := [][]string{
		importHeader(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "OTC", "common"},
		{"Amoxicillin", "Antibiotic", "Acme Pharma", "Capsule", "", ""},
	}

	report, err := svc.ImportMedicines(context.Background(), grid)
	if err != nil {
		t.Fatalf("ImportMedicines: %v", err)
	}
	if !report.Success || report.Inserted != 2 || report.Failed != 0 {
		t.Errorf("report = %+v, want success with 2 inserted", report)
	}
	if len(medicines.items) != 2 {
		t.Errorf("persisted = %d, want 2", len(medicines.items))
	}

	// Optional group resolved, empty group left nil.
	var para, amox *Medicine
	for _, m := range medicines.items {
		switch m.Name {
		case "Paracetamol":
			para = m
		case "Amoxicillin":
			amox = m
		}
	}
	if para == nil || para.GroupID == nil {
		t.Error("Paracetamol group should be resolved")
	}
	if amox == nil || amox.GroupID != nil {
		t.Error("Amoxicillin group should be nil")
	}
	if para.Notes == nil || *para.Notes != "common" {
		t.Error("notes not carried through")
	}
}

func TestImportMedicinesAllOrNothing(t *testing.T) {
	svc, _, medicines, _ := newTestService(t)
	grid := [][]string{
		importHeader(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{"Ibuprofen", "Analgesic", "Acme Pharma", "", "", ""}, // missing unit
	}

	report, err := svc.ImportMedicines(context.Background(), grid)
	if err != nil {
		t.Fatalf("ImportMedicines: %v", err)
	}
	if report.Success {
		t.Error("report should not be successful")
	}
	if report.Inserted != 0 {
		t.Errorf("inserted = %d, want 0", report.Inserted)
	}
	if report.Failed != 1 || report.Errors[0].Row != 3 {
		t.Errorf("errors = %+v, want one error on row 3", report.Errors)
	}
	if len(medicines.items) != 0 {
		t.Errorf("persisted = %d, want 0 (all-or-nothing)", len(medicines.items))
	}
}

func TestImportMedicinesDBDuplicate(t *testing.T) {
	svc, masters, medicines, _ := newTestService(t)
	cat, _ := masters.Index(context.Background(), MasterCategory)
	com, _ := masters.Index(context.Background(), MasterCompany)
	unit, _ := masters.Index(context.Background(), MasterUnit)
	if err := medicines.Create(context.Background(), &Medicine{
		Name: "Paracetamol", CategoryID: cat["Analgesic"], CompanyID: com["Acme Pharma"], UnitID: unit["Tablet"],
	}); err != nil {
		t.Fatalf("seed medicine: %v", err)
	}

	grid := [][]string{
		importHeader(),
		{"PARACETAMOL", "Analgesic", "Acme Pharma", "Tablet", "", ""},
	}
	report, err := svc.ImportMedicines(context.Background(), grid)
	if err != nil {
		t.Fatalf("ImportMedicines: %v", err)
	}
	if report.Success || report.Inserted != 0 {
		t.Errorf("report = %+v, want rejection", report)
	}
	if !strings.Contains(report.Errors[0].Error, "already exists in DB") {
		t.Errorf("error = %q", report.Errors[0].Error)
	}
}

func TestImportMedicinesUnknownReference(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	grid := [][]string{
		importHeader(),
		{"Cetirizine", "Antihistamine", "Acme Pharma", "Tablet", "", ""},
	}
	report, err := svc.ImportMedicines(context.Background(), grid)
	if err != nil {
		t.Fatalf("ImportMedicines: %v", err)
	}
	if report.Success {
		t.Error("unknown category should reject the import")
	}
	if !strings.Contains(report.Errors[0].Error, "category") {
		t.Errorf("error should name the failed reference, got %q", report.Errors[0].Error)
	}
}
