package gig

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldStatus    = "status"
	fieldUpdatedAt = "updated_at"
)

// validTransitions maps each gig status to the statuses it may move to.
// COMPLETED and CANCELLED are terminal.
var validTransitions = map[string][]string{
	domain.GigOpen:       {domain.GigInProgress, domain.GigCancelled},
	domain.GigInProgress: {domain.GigCompleted, domain.GigCancelled},
}

type Service interface {
	Create(ctx context.Context, userID, userName string, input domain.GigInput) (*domain.Gig, error)
	Get(ctx context.Context, gigID string) (*domain.Gig, error)
	List(ctx context.Context, status, category string) ([]domain.Gig, error)
	UpdateStatus(ctx context.Context, userID, role, gigID, status string) (*domain.Gig, error)
	Delete(ctx context.Context, userID, role, gigID string) error
}

type gigStore interface {
	Put(ctx context.Context, g *domain.Gig) error
	Get(ctx context.Context, gigID string) (*domain.Gig, error)
	List(ctx context.Context, status string) ([]domain.Gig, error)
	Update(ctx context.Context, gigID string, updates map[string]interface{}) error
	Delete(ctx context.Context, gigID string) error
}

type service struct {
	gigs gigStore
}

type ServiceDeps struct {
	GigRepo gigStore
}

func NewService(deps ServiceDeps) Service {
	return &service{gigs: deps.GigRepo}
}

func (s *service) Create(ctx context.Context, userID, userName string, input domain.GigInput) (*domain.Gig, error) {
	now := time.Now()
	g := &domain.Gig{
		GigID:        id.New(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Budget:       input.Budget,
		ContactInfo:  input.ContactInfo,
		PostedBy:     userID,
		PostedByName: userName,
		Status:       domain.GigOpen,
		Deadline:     input.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.gigs.Put(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Get(ctx context.Context, gigID string) (*domain.Gig, error) {
	return s.gigs.Get(ctx, gigID)
}

// List returns gigs filtered by status (storage-side, via the status GSI)
// and category (in memory; categories are a small fixed set).
func (s *service) List(ctx context.Context, status, category string) ([]domain.Gig, error) {
	gigs, err := s.gigs.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return gigs, nil
	}
	filtered := make([]domain.Gig, 0, len(gigs))
	for _, g := range gigs {
		if g.Category == category {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// UpdateStatus moves a gig along its lifecycle. Only the poster or an
// admin may change status, and terminal states are frozen.
func (s *service) UpdateStatus(ctx context.Context, userID, role, gigID, status string) (*domain.Gig, error) {
	g, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if g.PostedBy != userID && role != domain.RoleAdmin {
		return nil, fmt.Errorf("gig belongs to another user: %w", domain.ErrForbidden)
	}
	if !transitionAllowed(g.Status, status) {
		return nil, fmt.Errorf("cannot move gig from %s to %s: %w", g.Status, status, domain.ErrConflict)
	}
	now := time.Now()
	if err := s.gigs.Update(ctx, gigID, map[string]interface{}{
		fieldStatus:    status,
		fieldUpdatedAt: now,
	}); err != nil {
		return nil, err
	}
	g.Status = status
	g.UpdatedAt = now
	return g, nil
}

func (s *service) Delete(ctx context.Context, userID, role, gigID string) error {
	g, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return err
	}
	if g.PostedBy != userID && role != domain.RoleAdmin {
		return fmt.Errorf("gig belongs to another user: %w", domain.ErrForbidden)
	}
	return s.gigs.Delete(ctx, gigID)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
