package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

// TargetPercentage is the attendance threshold students are advised to
// stay above.
const TargetPercentage = 75.0

// DynamoDB attribute names used in partial update maps.
const (
	fieldSubject = "subject"
	fieldDate    = "date"
	fieldStatus  = "status"
)

type Service interface {
	Add(ctx context.Context, studentID string, input domain.AttendanceInput) (*domain.Attendance, error)
	List(ctx context.Context, studentID string) ([]domain.Attendance, error)
	Summary(ctx context.Context, studentID string) ([]domain.SubjectSummary, error)
	Update(ctx context.Context, studentID, attendanceID string, input domain.AttendanceInput) (*domain.Attendance, error)
	Delete(ctx context.Context, studentID, attendanceID string) error
}

type attendanceStore interface {
	Put(ctx context.Context, a *domain.Attendance) error
	Get(ctx context.Context, attendanceID string) (*domain.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Attendance, error)
	Update(ctx context.Context, attendanceID string, updates map[string]interface{}) error
	Delete(ctx context.Context, attendanceID string) error
}

type service struct {
	records attendanceStore
}

type ServiceDeps struct {
	AttendanceRepo attendanceStore
}

func NewService(deps ServiceDeps) Service {
	return &service{records: deps.AttendanceRepo}
}

func (s *service) Add(ctx context.Context, studentID string, input domain.AttendanceInput) (*domain.Attendance, error) {
	a := &domain.Attendance{
		AttendanceID: id.New(),
		StudentID:    studentID,
		Subject:      input.Subject,
		Date:         input.Date,
		Status:       input.Status,
		CreatedAt:    time.Now(),
	}
	if err := s.records.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context, studentID string) ([]domain.Attendance, error) {
	return s.records.ListByStudent(ctx, studentID)
}

// Summary aggregates per-subject percentages across all of a student's
// records.
func (s *service) Summary(ctx context.Context, studentID string) ([]domain.SubjectSummary, error) {
	records, err := s.records.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	type counts struct{ total, attended int }
	bySubject := map[string]*counts{}
	for _, rec := range records {
		c := bySubject[rec.Subject]
		if c == nil {
			c = &counts{}
			bySubject[rec.Subject] = c
		}
		c.total++
		if rec.Status == domain.AttendancePresent {
			c.attended++
		}
	}

	summaries := make([]domain.SubjectSummary, 0, len(bySubject))
	for subject, c := range bySubject {
		pct := 0.0
		if c.total > 0 {
			pct = float64(c.attended) / float64(c.total) * 100
		}
		summaries = append(summaries, domain.SubjectSummary{
			Subject:    subject,
			Total:      c.total,
			Attended:   c.attended,
			Percentage: pct,
			Target:     TargetPercentage,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Subject < summaries[j].Subject })
	return summaries, nil
}

func (s *service) Update(ctx context.Context, studentID, attendanceID string, input domain.AttendanceInput) (*domain.Attendance, error) {
	a, err := s.owned(ctx, studentID, attendanceID)
	if err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, attendanceID, map[string]interface{}{
		fieldSubject: input.Subject,
		fieldDate:    input.Date,
		fieldStatus:  input.Status,
	}); err != nil {
		return nil, err
	}
	a.Subject, a.Date, a.Status = input.Subject, input.Date, input.Status
	return a, nil
}

func (s *service) Delete(ctx context.Context, studentID, attendanceID string) error {
	if _, err := s.owned(ctx, studentID, attendanceID); err != nil {
		return err
	}
	return s.records.Delete(ctx, attendanceID)
}

func (s *service) owned(ctx context.Context, studentID, attendanceID string) (*domain.Attendance, error) {
	a, err := s.records.Get(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if a.StudentID != studentID {
		return nil, fmt.Errorf("attendance record belongs to another student: %w", domain.ErrForbidden)
	}
	return a, nil
}
