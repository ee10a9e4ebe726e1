package review

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, input domain.ProfessorReviewInput) (*domain.ProfessorReview, error)
	List(ctx context.Context) ([]domain.ProfessorReview, error)
	ListByProfessor(ctx context.Context, professorName string) ([]domain.ProfessorReview, error)
	Ratings(ctx context.Context) ([]domain.ProfessorRating, error)
	Delete(ctx context.Context, reviewID string) error
}

type reviewStore interface {
	Put(ctx context.Context, r *domain.ProfessorReview) error
	List(ctx context.Context) ([]domain.ProfessorReview, error)
	ListByProfessor(ctx context.Context, professorName string) ([]domain.ProfessorReview, error)
	Delete(ctx context.Context, reviewID string) error
}

type service struct {
	reviews reviewStore
}

type ServiceDeps struct {
	ReviewRepo reviewStore
}

func NewService(deps ServiceDeps) Service {
	return &service{reviews: deps.ReviewRepo}
}

// Create stores a review. Each student may review a professor once; the
// posted_by attribute exists only for that check and never serializes.
func (s *service) Create(ctx context.Context, userID string, input domain.ProfessorReviewInput) (*domain.ProfessorReview, error) {
	existing, err := s.reviews.ListByProfessor(ctx, input.ProfessorName)
	if err != nil {
		return nil, err
	}
	for _, rev := range existing {
		if rev.PostedBy == userID {
			return nil, fmt.Errorf("professor already reviewed: %w", domain.ErrConflict)
		}
	}

	r := &domain.ProfessorReview{
		ReviewID:             id.New(),
		ProfessorName:        input.ProfessorName,
		Department:           input.Department,
		Subject:              input.Subject,
		ChillFactor:          input.ChillFactor,
		AttendanceStrictness: input.AttendanceStrictness,
		MarksGenerosity:      input.MarksGenerosity,
		TeachingQuality:      input.TeachingQuality,
		Review:               input.Review,
		PostedBy:             userID,
		CreatedAt:            time.Now(),
	}
	if err := s.reviews.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context) ([]domain.ProfessorReview, error) {
	return s.reviews.List(ctx)
}

func (s *service) ListByProfessor(ctx context.Context, professorName string) ([]domain.ProfessorReview, error) {
	return s.reviews.ListByProfessor(ctx, professorName)
}

// Ratings averages every rating axis per professor.
func (s *service) Ratings(ctx context.Context) ([]domain.ProfessorRating, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}

	type sums struct {
		department                             string
		count                                  int
		chill, strictness, generosity, quality int
	}
	byProf := map[string]*sums{}
	for _, rev := range reviews {
		agg := byProf[rev.ProfessorName]
		if agg == nil {
			agg = &sums{department: rev.Department}
			byProf[rev.ProfessorName] = agg
		}
		agg.count++
		agg.chill += rev.ChillFactor
		agg.strictness += rev.AttendanceStrictness
		agg.generosity += rev.MarksGenerosity
		agg.quality += rev.TeachingQuality
	}

	ratings := make([]domain.ProfessorRating, 0, len(byProf))
	for name, agg := range byProf {
		n := float64(agg.count)
		ratings = append(ratings, domain.ProfessorRating{
			ProfessorName:           name,
			Department:              agg.department,
			ReviewCount:             agg.count,
			AvgChillFactor:          float64(agg.chill) / n,
			AvgAttendanceStrictness: float64(agg.strictness) / n,
			AvgMarksGenerosity:      float64(agg.generosity) / n,
			AvgTeachingQuality:      float64(agg.quality) / n,
		})
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ProfessorName < ratings[j].ProfessorName })
	return ratings, nil
}

func (s *service) Delete(ctx context.Context, reviewID string) error {
	return s.reviews.Delete(ctx, reviewID)
}
