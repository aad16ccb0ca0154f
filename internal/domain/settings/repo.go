package settings

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Get(ctx context.Context) (*HospitalSettings, error)
	Upsert(ctx context.Context, s *HospitalSettings) error
}
