package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

type BreakfastService struct {
	repo     ports.BreakfastRepository
	validate *inputValidator
	log      zerolog.Logger
}

func NewBreakfastService(repo ports.BreakfastRepository, log zerolog.Logger) *BreakfastService {
	return &BreakfastService{repo: repo, validate: newInputValidator(""), log: log}
}

// Create records an attendance. Date, student and attendance are mandatory.
func (s *BreakfastService) Create(ctx context.Context, in ports.CreateBreakfastInput) (*domain.Breakfast, error) {
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Breakfast{
		Date:          in.Date.UTC(),
		StudentID:     in.StudentID,
		Attendance:    in.Attendance,
		Fare:          in.Fare,
		Payment:       in.Payment,
		PaymentMethod: in.PaymentMethod,
		Observations:  in.Observations,
	})
	if err != nil {
		return nil, persistence("create breakfast", err)
	}
	s.log.Info().Str("breakfast_id", created.ID).Str("student_id", in.StudentID).Msg("breakfast attendance recorded")
	return created, nil
}

func (s *BreakfastService) List(ctx context.Context) ([]*domain.Breakfast, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistence("list breakfasts", err)
	}
	return items, nil
}

// ListByStudent returns a student's records between from and to, both inclusive.
func (s *BreakfastService) ListByStudent(ctx context.Context, studentID string, from, to time.Time) ([]*domain.Breakfast, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student_id is required", domain.ErrValidation)
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}

	items, err := s.repo.ListByStudent(ctx, studentID, from.UTC(), to.UTC())
	if err != nil {
		return nil, persistence("breakfasts by student", err)
	}
	return items, nil
}

func (s *BreakfastService) Get(ctx context.Context, id string) (*domain.Breakfast, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get breakfast", domain.ErrBreakfastNotFound, err)
	}
	return b, nil
}

func (s *BreakfastService) Update(ctx context.Context, id string, upd ports.BreakfastUpdate) (*domain.Breakfast, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	if upd.StudentID != nil && s.validate.v.Var(*upd.StudentID, "required,mongodb") != nil {
		return nil, fmt.Errorf("%w: student_id must be a valid object id", domain.ErrValidation)
	}
	if upd.Attendance != nil && *upd.Attendance == "" {
		return nil, fmt.Errorf("%w: attendance must not be empty", domain.ErrValidation)
	}
	if upd.Payment != nil && *upd.Payment < 0 {
		return nil, fmt.Errorf("%w: payment must be greater than or equal to 0", domain.ErrValidation)
	}

	b, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, notFoundOr("update breakfast", domain.ErrBreakfastNotFound, err)
	}
	return b, nil
}

func (s *BreakfastService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr("delete breakfast", domain.ErrBreakfastNotFound, err)
	}
	return nil
}

// notFoundOr passes target through untouched and wraps anything else as a
// persistence failure.
func notFoundOr(op string, target, err error) error {
	if errors.Is(err, target) {
		return err
	}
	return persistence(op, err)
}
