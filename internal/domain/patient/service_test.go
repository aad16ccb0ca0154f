package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
	seq   int
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.items {
		if p.MRN == mrn {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		if p.Active {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	q := strings.ToLower(query)
	var result []*Patient
	for _, p := range m.items {
		if !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.FirstName), q) ||
			strings.Contains(strings.ToLower(p.LastName), q) ||
			strings.Contains(strings.ToLower(p.MRN), q) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) NextMRN(_ context.Context) (string, error) {
	m.seq++
	return fmt.Sprintf("P-%06d", m.seq), nil
}

func TestRegisterGeneratesMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{FirstName: "Asha", LastName: "Verma", Gender: "female"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.MRN != "P-000001" {
		t.Errorf("mrn = %q, want P-000001", p.MRN)
	}
	if !p.Active {
		t.Error("new patient should be active")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Register(context.Background(), &Patient{}); err == nil {
		t.Error("expected error for missing first_name")
	}
	if err := svc.Register(context.Background(), &Patient{FirstName: "X", Gender: "robot"}); err == nil {
		t.Error("expected error for invalid gender")
	}
}

func TestRegisterDefaultsGender(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{FirstName: "Ravi"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Gender != "unknown" {
		t.Errorf("gender = %q, want unknown", p.Gender)
	}
}

func TestUpdateKeepsMRN(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Patient{FirstName: "Asha", Gender: "female"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	update := &Patient{ID: p.ID, FirstName: "Asha", LastName: "Sharma", Gender: "female", MRN: "HACKED"}
	if err := svc.Update(context.Background(), update); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if update.MRN != p.MRN {
		t.Errorf("mrn changed to %q, want %q", update.MRN, p.MRN)
	}
}

func TestSearchFallsBackToList(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	for _, name := range []string{"Asha", "Ravi"} {
		if err := svc.Register(context.Background(), &Patient{FirstName: name}); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	all, total, err := svc.Search(context.Background(), "", 20, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("total = %d, len = %d, want 2", total, len(all))
	}

	match, _, err := svc.Search(context.Background(), "asha", 20, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(match) != 1 || match[0].FirstName != "Asha" {
		t.Errorf("match = %+v", match)
	}
}

func TestDeactivateHidesFromList(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Patient{FirstName: "Asha"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Deactivate(context.Background(), p.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	items, _, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("deactivated patient still listed: %+v", items)
	}
}
