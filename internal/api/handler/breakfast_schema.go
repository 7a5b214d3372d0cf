package handler

import (
	"fmt"
	"time"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// Dates are accepted as plain days (2006-01-02) or full RFC 3339 timestamps.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(field, raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", domain.ErrValidation, field)
}

type createBreakfastRequest struct {
	Date          string  `json:"date" validate:"required"`
	StudentID     string  `json:"student_id" validate:"required,mongodb"`
	Attendance    string  `json:"attendance" validate:"required"`
	Fare          string  `json:"fare"`
	Payment       float64 `json:"payment" validate:"gte=0"`
	PaymentMethod string  `json:"payment_method"`
	Observations  string  `json:"observations"`
}

func (r createBreakfastRequest) toInput() (ports.CreateBreakfastInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return ports.CreateBreakfastInput{}, err
	}
	return ports.CreateBreakfastInput{
		Date:          date,
		StudentID:     r.StudentID,
		Attendance:    r.Attendance,
		Fare:          r.Fare,
		Payment:       r.Payment,
		PaymentMethod: r.PaymentMethod,
		Observations:  r.Observations,
	}, nil
}

type updateBreakfastRequest struct {
	Date          *string  `json:"date"`
	StudentID     *string  `json:"student_id"`
	Attendance    *string  `json:"attendance"`
	Fare          *string  `json:"fare"`
	Payment       *float64 `json:"payment"`
	PaymentMethod *string  `json:"payment_method"`
	Observations  *string  `json:"observations"`
}

func (r updateBreakfastRequest) toUpdate() (ports.BreakfastUpdate, error) {
	upd := ports.BreakfastUpdate{
		StudentID:     r.StudentID,
		Attendance:    r.Attendance,
		Fare:          r.Fare,
		Payment:       r.Payment,
		PaymentMethod: r.PaymentMethod,
		Observations:  r.Observations,
	}
	if r.Date != nil {
		date, err := parseDate("date", *r.Date)
		if err != nil {
			return ports.BreakfastUpdate{}, err
		}
		upd.Date = &date
	}
	return upd, nil
}

type breakfastResponse struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	StudentID     string          `json:"student_id"`
	Student       *domain.Student `json:"student,omitempty"`
	Attendance    string          `json:"attendance"`
	Fare          string          `json:"fare,omitempty"`
	Payment       float64         `json:"payment"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Observations  string          `json:"observations,omitempty"`
}

func toBreakfastResponse(b *domain.Breakfast) breakfastResponse {
	return breakfastResponse{
		ID:            b.ID,
		Date:          b.Date,
		StudentID:     b.StudentID,
		Student:       b.Student,
		Attendance:    b.Attendance,
		Fare:          b.Fare,
		Payment:       b.Payment,
		PaymentMethod: b.PaymentMethod,
		Observations:  b.Observations,
	}
}

func toBreakfastResponses(items []*domain.Breakfast) []breakfastResponse {
	out := make([]breakfastResponse, len(items))
	for i, b := range items {
		out[i] = toBreakfastResponse(b)
	}
	return out
}
