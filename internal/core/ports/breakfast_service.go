package ports

import (
	"context"
	"time"

	"github.com/comedor/admin-api/internal/core/domain"
)

// CreateBreakfastInput carries a new attendance record.
type CreateBreakfastInput struct {
	Date          time.Time `json:"date" validate:"required"`
	StudentID     string    `json:"student_id" validate:"required,mongodb"`
	Attendance    string    `json:"attendance" validate:"required"`
	Fare          string    `json:"fare"`
	Payment       float64   `json:"payment" validate:"gte=0"`
	PaymentMethod string    `json:"payment_method"`
	Observations  string    `json:"observations"`
}

// BreakfastService manages breakfast attendance.
type BreakfastService interface {
	Create(ctx context.Context, input CreateBreakfastInput) (*domain.Breakfast, error)
	List(ctx context.Context) ([]*domain.Breakfast, error)
	ListByStudent(ctx context.Context, studentID string, from, to time.Time) ([]*domain.Breakfast, error)
	Get(ctx context.Context, id string) (*domain.Breakfast, error)
	Update(ctx context.Context, id string, update BreakfastUpdate) (*domain.Breakfast, error)
	Delete(ctx context.Context, id string) error
}

// ReferenceService manages rates and centers.
type ReferenceService interface {
	ListRates(ctx context.Context) ([]*domain.Rate, error)
	CreateRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error)
	GetRate(ctx context.Context, id string) (*domain.Rate, error)
	UpdateRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error)
	DeleteRate(ctx context.Context, id string) error

	ListCenters(ctx context.Context) ([]*domain.Center, error)
	CreateCenter(ctx context.Context, center domain.Center) (*domain.Center, error)
	GetCenter(ctx context.Context, id string) (*domain.Center, error)
	UpdateCenter(ctx context.Context, center domain.Center) (*domain.Center, error)
	DeleteCenter(ctx context.Context, id string) error
}
