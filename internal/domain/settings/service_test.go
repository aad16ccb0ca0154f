package settings

import (
	"context"
	"testing"
)

type mockRepo struct {
	stored *HospitalSettings
}

func (m *mockRepo) Get(_ context.Context) (*HospitalSettings, error) {
	if m.stored == nil {
		return nil, ErrNotFound
	}
	return m.stored, nil
}

func (m *mockRepo) Upsert(_ context.Context, s *HospitalSettings) error {
	m.stored = s
	return nil
}

func TestGetReturnsDefaultsBeforeFirstSave(t *testing.T) {
	svc := NewService(&mockRepo{})

	s, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Currency != "INR" || s.LowStockThreshold != 10 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestSaveThenGet(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	in := &HospitalSettings{HospitalName: "City Care", Currency: "USD", LowStockThreshold: 25}
	if err := svc.Save(context.Background(), in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.HospitalName != "City Care" || got.Currency != "USD" || got.LowStockThreshold != 25 {
		t.Errorf("got = %+v", got)
	}
}

func TestSaveValidation(t *testing.T) {
	svc := NewService(&mockRepo{})

	if err := svc.Save(context.Background(), &HospitalSettings{}); err == nil {
		t.Error("missing hospital_name should be rejected")
	}
	if err := svc.Save(context.Background(), &HospitalSettings{HospitalName: "X", LowStockThreshold: -1}); err == nil {
		t.Error("negative threshold should be rejected")
	}
}

func TestSaveFillsDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	in := &HospitalSettings{HospitalName: "City Care"}
	if err := svc.Save(context.Background(), in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.stored.Currency != "INR" || repo.stored.LowStockThreshold != 10 {
		t.Errorf("stored = %+v, want defaults filled", repo.stored)
	}
}
