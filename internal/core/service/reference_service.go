package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// ReferenceService manages breakfast rates and school centers.
type ReferenceService struct {
	rates   ports.RateRepository
	centers ports.CenterRepository
	log     zerolog.Logger
}

func NewReferenceService(rates ports.RateRepository, centers ports.CenterRepository, log zerolog.Logger) *ReferenceService {
	return &ReferenceService{rates: rates, centers: centers, log: log}
}

func (s *ReferenceService) ListRates(ctx context.Context) ([]*domain.Rate, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, persistence("list rates", err)
	}
	return rates, nil
}

func (s *ReferenceService) CreateRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	created, err := s.rates.Create(ctx, &rate)
	if err != nil {
		return nil, persistence("create rate", err)
	}
	return created, nil
}

func (s *ReferenceService) GetRate(ctx context.Context, id string) (*domain.Rate, error) {
	rate, err := s.rates.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get rate", domain.ErrRateNotFound, err)
	}
	return rate, nil
}

func (s *ReferenceService) UpdateRate(ctx context.Context, rate domain.Rate) (*domain.Rate, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	updated, err := s.rates.Update(ctx, &rate)
	if err != nil {
		return nil, notFoundOr("update rate", domain.ErrRateNotFound, err)
	}
	return updated, nil
}

func (s *ReferenceService) DeleteRate(ctx context.Context, id string) error {
	if err := s.rates.Delete(ctx, id); err != nil {
		return notFoundOr("delete rate", domain.ErrRateNotFound, err)
	}
	return nil
}

func (s *ReferenceService) ListCenters(ctx context.Context) ([]*domain.Center, error) {
	centers, err := s.centers.List(ctx)
	if err != nil {
		return nil, persistence("list centers", err)
	}
	return centers, nil
}

func (s *ReferenceService) CreateCenter(ctx context.Context, center domain.Center) (*domain.Center, error) {
	if strings.TrimSpace(center.Center) == "" {
		return nil, fmt.Errorf("%w: center is required", domain.ErrValidation)
	}
	created, err := s.centers.Create(ctx, &center)
	if err != nil {
		return nil, persistence("create center", err)
	}
	return created, nil
}

func (s *ReferenceService) GetCenter(ctx context.Context, id string) (*domain.Center, error) {
	center, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get center", domain.ErrCenterNotFound, err)
	}
	return center, nil
}

func (s *ReferenceService) UpdateCenter(ctx context.Context, center domain.Center) (*domain.Center, error) {
	if strings.TrimSpace(center.Center) == "" {
		return nil, fmt.Errorf("%w: center is required", domain.ErrValidation)
	}
	updated, err := s.centers.Update(ctx, &center)
	if err != nil {
		return nil, notFoundOr("update center", domain.ErrCenterNotFound, err)
	}
	return updated, nil
}

func (s *ReferenceService) DeleteCenter(ctx context.Context, id string) error {
	if err := s.centers.Delete(ctx, id); err != nil {
		return notFoundOr("delete center", domain.ErrCenterNotFound, err)
	}
	return nil
}

func checkRate(r domain.Rate) error {
	if strings.TrimSpace(r.Rate) == "" {
		return fmt.Errorf("%w: rate is required", domain.ErrValidation)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: price must be greater than or equal to 0", domain.ErrValidation)
	}
	return nil
}
