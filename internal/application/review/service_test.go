package review

import (
	"context"
	"testing"

	"github.com/campus-os/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReviewStore struct{ mock.Mock }

func (m *mockReviewStore) Put(ctx context.Context, r *domain.ProfessorReview) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockReviewStore) List(ctx context.Context) ([]domain.ProfessorReview, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProfessorReview), args.Error(1)
}
func (m *mockReviewStore) ListByProfessor(ctx context.Context, professorName string) ([]domain.ProfessorReview, error) {
	args := m.Called(ctx, professorName)
	return args.Get(0).([]domain.ProfessorReview), args.Error(1)
}
func (m *mockReviewStore) Delete(ctx context.Context, reviewID string) error {
	return m.Called(ctx, reviewID).Error(0)
}

func input() domain.ProfessorReviewInput {
	return domain.ProfessorReviewInput{
		ProfessorName:        "Dr. Rao",
		Department:           "Physics",
		ChillFactor:          4,
		AttendanceStrictness: 2,
		MarksGenerosity:      5,
		TeachingQuality:      4,
	}
}

func TestCreate_Success(t *testing.T) {
	reviews := &mockReviewStore{}
	reviews.On("ListByProfessor", mock.Anything, "Dr. Rao").Return([]domain.ProfessorReview{}, nil)
	reviews.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.ProfessorReview) bool {
		return r.PostedBy == "u-1" && r.ProfessorName == "Dr. Rao"
	})).Return(nil)

	svc := NewService(ServiceDeps{ReviewRepo: reviews})
	rev, err := svc.Create(context.Background(), "u-1", input())

	require.NoError(t, err)
	assert.NotEmpty(t, rev.ReviewID)
	reviews.AssertExpectations(t)
}

func TestCreate_DuplicateForSameProfessorRejected(t *testing.T) {
	reviews := &mockReviewStore{}
	reviews.On("ListByProfessor", mock.Anything, "Dr. Rao").Return([]domain.ProfessorReview{
		{ReviewID: "r-1", ProfessorName: "Dr. Rao", PostedBy: "u-1"},
	}, nil)

	svc := NewService(ServiceDeps{ReviewRepo: reviews})
	_, err := svc.Create(context.Background(), "u-1", input())

	assert.ErrorIs(t, err, domain.ErrConflict)
	reviews.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRatings_AveragesPerProfessor(t *testing.T) {
	reviews := &mockReviewStore{}
	reviews.On("List", mock.Anything).Return([]domain.ProfessorReview{
		{ProfessorName: "Dr. Rao", Department: "Physics", ChillFactor: 4, AttendanceStrictness: 2, MarksGenerosity: 4, TeachingQuality: 5},
		{ProfessorName: "Dr. Rao", Department: "Physics", ChillFactor: 2, AttendanceStrictness: 4, MarksGenerosity: 2, TeachingQuality: 3},
		{ProfessorName: "Dr. Iyer", Department: "Maths", ChillFactor: 5, AttendanceStrictness: 1, MarksGenerosity: 5, TeachingQuality: 5},
	}, nil)

	svc := NewService(ServiceDeps{ReviewRepo: reviews})
	ratings, err := svc.Ratings(context.Background())

	require.NoError(t, err)
	require.Len(t, ratings, 2)

	// Sorted by professor name.
	iyer, rao := ratings[0], ratings[1]
	assert.Equal(t, "Dr. Iyer", iyer.ProfessorName)
	assert.Equal(t, 1, iyer.ReviewCount)
	assert.InDelta(t, 5.0, iyer.AvgChillFactor, 0.01)

	assert.Equal(t, "Dr. Rao", rao.ProfessorName)
	assert.Equal(t, 2, rao.ReviewCount)
	assert.InDelta(t, 3.0, rao.AvgChillFactor, 0.01)
	assert.InDelta(t, 3.0, rao.AvgAttendanceStrictness, 0.01)
	assert.InDelta(t, 3.0, rao.AvgMarksGenerosity, 0.01)
	assert.InDelta(t, 4.0, rao.AvgTeachingQuality, 0.01)
}
