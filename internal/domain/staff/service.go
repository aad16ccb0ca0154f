package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *Member) error {
	if m.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if existing, err := s.repo.GetByUserID(ctx, m.UserID); err == nil && existing != nil {
		return fmt.Errorf("staff member already exists for user %s", m.UserID)
	}
	m.Active = true
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, m *Member) error {
	existing, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	// The identity link never changes after creation.
	m.UserID = existing.UserID
	return s.repo.Update(ctx, m)
}

// Deactivate marks the member inactive instead of deleting; historical
// records keep referencing the row.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Active = false
	return s.repo.Update(ctx, m)
}

func (s *Service) List(ctx context.Context, role string, limit, offset int) ([]*Member, int, error) {
	if role != "" && !validRoles[role] {
		return nil, 0, fmt.Errorf("invalid role: %s", role)
	}
	return s.repo.List(ctx, role, limit, offset)
}
