package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Schedule(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Practitioner == "" {
		return fmt.Errorf("practitioner is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMin <= 0 {
		a.DurationMin = 15
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangeStatus applies a status transition, rejecting moves that are not in
// the transition table (completed and cancelled are terminal).
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("cannot change status from %s to %s", a.Status, status)
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, fmt.Errorf("only scheduled appointments can be rescheduled")
	}
	a.ScheduledAt = at
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDay(ctx, day, limit, offset)
}
