package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByUserID(ctx context.Context, userID string) (*Member, error)
	Update(ctx context.Context, m *Member) error
	List(ctx context.Context, role string, limit, offset int) ([]*Member, int, error)
}
