package exam

import (
	"context"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldSubject     = "subject"
	fieldExamDate    = "exam_date"
	fieldDeadline    = "deadline"
	fieldDescription = "description"
	fieldUpdatedAt   = "updated_at"
)

type Service interface {
	Create(ctx context.Context, input domain.ExamInput) (*domain.Exam, error)
	Get(ctx context.Context, examID string) (*domain.Exam, error)
	List(ctx context.Context) ([]domain.Exam, error)
	Update(ctx context.Context, examID string, input domain.ExamInput) (*domain.Exam, error)
	Delete(ctx context.Context, examID string) error
}

type examStore interface {
	Put(ctx context.Context, e *domain.Exam) error
	Get(ctx context.Context, examID string) (*domain.Exam, error)
	List(ctx context.Context) ([]domain.Exam, error)
	Update(ctx context.Context, examID string, updates map[string]interface{}) error
	Delete(ctx context.Context, examID string) error
}

type service struct {
	exams examStore
}

type ServiceDeps struct {
	ExamRepo examStore
}

func NewService(deps ServiceDeps) Service {
	return &service{exams: deps.ExamRepo}
}

func (s *service) Create(ctx context.Context, input domain.ExamInput) (*domain.Exam, error) {
	now := time.Now()
	e := &domain.Exam{
		ExamID:      id.New(),
		Subject:     input.Subject,
		ExamDate:    input.ExamDate,
		Deadline:    input.Deadline,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.exams.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Get(ctx context.Context, examID string) (*domain.Exam, error) {
	return s.exams.Get(ctx, examID)
}

func (s *service) List(ctx context.Context) ([]domain.Exam, error) {
	return s.exams.List(ctx)
}

func (s *service) Update(ctx context.Context, examID string, input domain.ExamInput) (*domain.Exam, error) {
	if _, err := s.exams.Get(ctx, examID); err != nil {
		return nil, err
	}
	if err := s.exams.Update(ctx, examID, map[string]interface{}{
		fieldSubject:     input.Subject,
		fieldExamDate:    input.ExamDate,
		fieldDeadline:    input.Deadline,
		fieldDescription: input.Description,
		fieldUpdatedAt:   time.Now(),
	}); err != nil {
		return nil, err
	}
	return s.exams.Get(ctx, examID)
}

func (s *service) Delete(ctx context.Context, examID string) error {
	if _, err := s.exams.Get(ctx, examID); err != nil {
		return err
	}
	return s.exams.Delete(ctx, examID)
}
