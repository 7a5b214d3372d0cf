package ports

import (
	"context"
	"time"

	"github.com/comedor/admin-api/internal/core/domain"
)

// BreakfastUpdate is a partial update of an attendance record.
type BreakfastUpdate struct {
	Date          *time.Time
	StudentID     *string
	Attendance    *string
	Fare          *string
	Payment       *float64
	PaymentMethod *string
	Observations  *string
}

// Empty reports whether no field is set.
func (u BreakfastUpdate) Empty() bool {
	return u.Date == nil && u.StudentID == nil && u.Attendance == nil && u.Fare == nil &&
		u.Payment == nil && u.PaymentMethod == nil && u.Observations == nil
}

// BreakfastRepository persists attendance records. Reads join the student name.
type BreakfastRepository interface {
	Create(ctx context.Context, b *domain.Breakfast) (*domain.Breakfast, error)
	List(ctx context.Context) ([]*domain.Breakfast, error)
	// ListByStudent returns records of a student with from <= date <= to.
	ListByStudent(ctx context.Context, studentID string, from, to time.Time) ([]*domain.Breakfast, error)
	FindByID(ctx context.Context, id string) (*domain.Breakfast, error)
	Update(ctx context.Context, id string, update BreakfastUpdate) (*domain.Breakfast, error)
	Delete(ctx context.Context, id string) error
}

// RateRepository persists breakfast rates.
type RateRepository interface {
	Create(ctx context.Context, r *domain.Rate) (*domain.Rate, error)
	List(ctx context.Context) ([]*domain.Rate, error)
	FindByID(ctx context.Context, id string) (*domain.Rate, error)
	Update(ctx context.Context, r *domain.Rate) (*domain.Rate, error)
	Delete(ctx context.Context, id string) error
}

// CenterRepository persists school centers.
type CenterRepository interface {
	Create(ctx context.Context, c *domain.Center) (*domain.Center, error)
	List(ctx context.Context) ([]*domain.Center, error)
	FindByID(ctx context.Context, id string) (*domain.Center, error)
	Update(ctx context.Context, c *domain.Center) (*domain.Center, error)
	Delete(ctx context.Context, id string) error
}
