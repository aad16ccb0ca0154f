package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for _, item := range p.Items {
		item.ID = uuid.New()
		item.PrescriptionID = p.ID
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) GetItems(_ context.Context, prescriptionID uuid.UUID) ([]*PrescriptionItem, error) {
	p, ok := m.items[prescriptionID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Items, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.items {
		if p.PatientID == patientID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func validPrescription() *Prescription {
	return &Prescription{
		PatientID:  uuid.New(),
		Prescriber: "Dr. Mehta",
		Items: []*PrescriptionItem{
			{MedicineName: "Paracetamol 500mg", Dosage: "1 tablet", Frequency: "TID", DurationDays: 5},
			{MedicineName: "Amoxicillin 250mg", Dosage: "1 capsule", Frequency: "BID", DurationDays: 7},
		},
	}
}

func TestCreatePrescription(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	p := validPrescription()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PrescribedAt.IsZero() {
		t.Error("prescribed_at should default to now")
	}
	if p.Items[0].Sequence != 1 || p.Items[1].Sequence != 2 {
		t.Errorf("sequences = %d, %d; want 1, 2", p.Items[0].Sequence, p.Items[1].Sequence)
	}
}

func TestCreatePrescriptionValidation(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	p := validPrescription()
	p.PatientID = uuid.Nil
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for missing patient_id")
	}

	p = validPrescription()
	p.Prescriber = ""
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for missing prescriber")
	}

	p = validPrescription()
	p.Items = nil
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for empty items")
	}

	p = validPrescription()
	p.Items[1].MedicineName = ""
	p.Items[1].MedicineID = nil
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for item without medicine")
	}

	p = validPrescription()
	p.Items[0].Dosage = ""
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for item without dosage")
	}
}

func TestGetWithItems(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	p := validPrescription()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 2 {
		t.Errorf("items = %d, want 2", len(got.Items))
	}
}

func TestListByPatient(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	p := validPrescription()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := validPrescription()
	if err := svc.Create(context.Background(), other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, total, err := svc.ListByPatient(context.Background(), p.PatientID, 20, 0)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("total = %d, len = %d, want 1", total, len(items))
	}
}
