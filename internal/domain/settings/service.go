package settings

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the tenant's settings, falling back to defaults before the
// first save.
func (s *Service) Get(ctx context.Context) (*HospitalSettings, error) {
	got, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	return got, nil
}

func (s *Service) Save(ctx context.Context, in *HospitalSettings) error {
	if in.HospitalName == "" {
		return fmt.Errorf("hospital_name is required")
	}
	if in.Currency == "" {
		in.Currency = Defaults().Currency
	}
	if in.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold must not be negative")
	}
	if in.LowStockThreshold == 0 {
		in.LowStockThreshold = Defaults().LowStockThreshold
	}
	return s.repo.Upsert(ctx, in)
}
