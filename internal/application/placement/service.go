package placement

import (
	"context"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldCompanyName = "company_name"
	fieldRole        = "role"
	fieldEligibility = "eligibility"
	fieldDeadline    = "deadline"
	fieldUpdatedAt   = "updated_at"
)

type Service interface {
	Create(ctx context.Context, input domain.PlacementInput) (*domain.Placement, error)
	Get(ctx context.Context, placementID string) (*domain.Placement, error)
	List(ctx context.Context) ([]domain.Placement, error)
	Update(ctx context.Context, placementID string, input domain.PlacementInput) (*domain.Placement, error)
	Delete(ctx context.Context, placementID string) error
}

type placementStore interface {
	Put(ctx context.Context, p *domain.Placement) error
	Get(ctx context.Context, placementID string) (*domain.Placement, error)
	List(ctx context.Context) ([]domain.Placement, error)
	Update(ctx context.Context, placementID string, updates map[string]interface{}) error
	Delete(ctx context.Context, placementID string) error
}

type service struct {
	placements placementStore
}

type ServiceDeps struct {
	PlacementRepo placementStore
}

func NewService(deps ServiceDeps) Service {
	return &service{placements: deps.PlacementRepo}
}

func (s *service) Create(ctx context.Context, input domain.PlacementInput) (*domain.Placement, error) {
	now := time.Now()
	p := &domain.Placement{
		PlacementID: id.New(),
		CompanyName: input.CompanyName,
		Role:        input.Role,
		Eligibility: input.Eligibility,
		Deadline:    input.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.placements.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, placementID string) (*domain.Placement, error) {
	return s.placements.Get(ctx, placementID)
}

func (s *service) List(ctx context.Context) ([]domain.Placement, error) {
	return s.placements.List(ctx)
}

func (s *service) Update(ctx context.Context, placementID string, input domain.PlacementInput) (*domain.Placement, error) {
	if _, err := s.placements.Get(ctx, placementID); err != nil {
		return nil, err
	}
	if err := s.placements.Update(ctx, placementID, map[string]interface{}{
		fieldCompanyName: input.CompanyName,
		fieldRole:        input.Role,
		fieldEligibility: input.Eligibility,
		fieldDeadline:    input.Deadline,
		fieldUpdatedAt:   time.Now(),
	}); err != nil {
		return nil, err
	}
	return s.placements.Get(ctx, placementID)
}

func (s *service) Delete(ctx context.Context, placementID string) error {
	if _, err := s.placements.Get(ctx, placementID); err != nil {
		return err
	}
	return s.placements.Delete(ctx, placementID)
}
