package placement

import (
	"context"
	"testing"

	"github.com/campus-os/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlacementStore struct{ mock.Mock }

func (m *mockPlacementStore) Put(ctx context.Context, p *domain.Placement) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPlacementStore) Get(ctx context.Context, placementID string) (*domain.Placement, error) {
	args := m.Called(ctx, placementID)
	if p, _ := args.Get(0).(*domain.Placement); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPlacementStore) List(ctx context.Context) ([]domain.Placement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Placement), args.Error(1)
}
func (m *mockPlacementStore) Update(ctx context.Context, placementID string, updates map[string]interface{}) error {
	return m.Called(ctx, placementID, updates).Error(0)
}
func (m *mockPlacementStore) Delete(ctx context.Context, placementID string) error {
	return m.Called(ctx, placementID).Error(0)
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	placements := &mockPlacementStore{}
	placements.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Placement) bool {
		return p.PlacementID != "" && !p.CreatedAt.IsZero()
	})).Return(nil)

	svc := NewService(ServiceDeps{PlacementRepo: placements})
	p, err := svc.Create(context.Background(), domain.PlacementInput{
		CompanyName: "Acme Systems",
		Role:        "Graduate Engineer",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Systems", p.CompanyName)
	placements.AssertExpectations(t)
}

func TestUpdate_StampsUpdatedAt(t *testing.T) {
	placements := &mockPlacementStore{}
	placements.On("Get", mock.Anything, "p-1").Return(&domain.Placement{PlacementID: "p-1"}, nil)
	placements.On("Update", mock.Anything, "p-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates[fieldRole] == "SDE Intern" && updates[fieldUpdatedAt] != nil
	})).Return(nil)

	svc := NewService(ServiceDeps{PlacementRepo: placements})
	_, err := svc.Update(context.Background(), "p-1", domain.PlacementInput{
		CompanyName: "Acme Systems",
		Role:        "SDE Intern",
	})

	require.NoError(t, err)
	placements.AssertExpectations(t)
}

func TestDelete_UnknownPlacementNotFound(t *testing.T) {
	placements := &mockPlacementStore{}
	placements.On("Get", mock.Anything, "p-missing").Return(nil, domain.ErrNotFound)

	svc := NewService(ServiceDeps{PlacementRepo: placements})

	assert.ErrorIs(t, svc.Delete(context.Background(), "p-missing"), domain.ErrNotFound)
	placements.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
