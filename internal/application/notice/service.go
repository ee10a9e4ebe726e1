package notice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle     = "title"
	fieldBody      = "body"
	fieldFileKey   = "file_key"
	fieldSummary   = "summary"
	fieldUpdatedAt = "updated_at"
)

type Service interface {
	Create(ctx context.Context, input domain.NoticeInput) (*domain.Notice, error)
	Get(ctx context.Context, noticeID string) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	Update(ctx context.Context, noticeID string, input domain.NoticeInput) (*domain.Notice, error)
	Delete(ctx context.Context, noticeID string) error
	UploadAttachment(ctx context.Context, noticeID, filename string, r io.Reader, contentType string) (*domain.Notice, error)
}

type noticeStore interface {
	Put(ctx context.Context, n *domain.Notice) error
	Get(ctx context.Context, noticeID string) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	Update(ctx context.Context, noticeID string, updates map[string]interface{}) error
	Delete(ctx context.Context, noticeID string) error
}

type fileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type noticePublisher interface {
	PublishNotice(ctx context.Context, title, body string) error
}

type summarizer interface {
	Enabled() bool
	Summarize(ctx context.Context, text string) (string, error)
}

type service struct {
	notices    noticeStore
	files      fileStore
	publisher  noticePublisher
	summarizer summarizer
	dispatch   func(func())
}

type ServiceDeps struct {
	NoticeRepo noticeStore
	Files      fileStore
	Publisher  noticePublisher
	Summarizer summarizer

	// Dispatch runs fan-out work (SNS publish, AI summary) off the
	// request path. Defaults to spawning a goroutine.
	Dispatch func(func())
}

func NewService(deps ServiceDeps) Service {
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { go fn() }
	}
	return &service{
		notices:    deps.NoticeRepo,
		files:      deps.Files,
		publisher:  deps.Publisher,
		summarizer: deps.Summarizer,
		dispatch:   dispatch,
	}
}

func (s *service) Create(ctx context.Context, input domain.NoticeInput) (*domain.Notice, error) {
	now := time.Now()
	n := &domain.Notice{
		NoticeID:  id.New(),
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notices.Put(ctx, n); err != nil {
		return nil, err
	}

	s.dispatch(func() {
		if err := s.publisher.PublishNotice(context.Background(), n.Title, n.Body); err != nil {
			slog.Error("publish notice", "notice_id", n.NoticeID, "error", err)
		}
	})
	if s.summarizer.Enabled() && n.Body != "" {
		s.dispatch(func() { s.summarize(n.NoticeID, n.Body) })
	}
	return n, nil
}

// summarize fills in the AI digest after creation; a failure leaves the
// notice without a summary, which is fine.
func (s *service) summarize(noticeID, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, body)
	if err != nil {
		slog.Warn("summarize notice", "notice_id", noticeID, "error", err)
		return
	}
	if err := s.notices.Update(ctx, noticeID, map[string]interface{}{
		fieldSummary: summary,
	}); err != nil {
		slog.Error("store notice summary", "notice_id", noticeID, "error", err)
	}
}

func (s *service) Get(ctx context.Context, noticeID string) (*domain.Notice, error) {
	n, err := s.notices.Get(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, n)
	return n, nil
}

func (s *service) List(ctx context.Context) ([]domain.Notice, error) {
	notices, err := s.notices.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notices {
		s.attachURL(ctx, &notices[i])
	}
	return notices, nil
}

func (s *service) Update(ctx context.Context, noticeID string, input domain.NoticeInput) (*domain.Notice, error) {
	if _, err := s.notices.Get(ctx, noticeID); err != nil {
		return nil, err
	}
	if err := s.notices.Update(ctx, noticeID, map[string]interface{}{
		fieldTitle:     input.Title,
		fieldBody:      input.Body,
		fieldUpdatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, noticeID)
}

func (s *service) Delete(ctx context.Context, noticeID string) error {
	n, err := s.notices.Get(ctx, noticeID)
	if err != nil {
		return err
	}
	if n.FileKey != "" {
		if err := s.files.Delete(ctx, n.FileKey); err != nil {
			slog.Warn("delete notice attachment", "notice_id", noticeID, "error", err)
		}
	}
	return s.notices.Delete(ctx, noticeID)
}

func (s *service) UploadAttachment(ctx context.Context, noticeID, filename string, r io.Reader, contentType string) (*domain.Notice, error) {
	n, err := s.notices.Get(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("notices/%s/%s", n.NoticeID, filename)
	if _, err := s.files.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}
	if err := s.notices.Update(ctx, noticeID, map[string]interface{}{
		fieldFileKey:   key,
		fieldUpdatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, noticeID)
}

func (s *service) attachURL(ctx context.Context, n *domain.Notice) {
	if n.FileKey == "" {
		return
	}
	url, err := s.files.PresignedURL(ctx, n.FileKey, presignTTL)
	if err != nil {
		slog.Warn("presign notice attachment", "notice_id", n.NoticeID, "error", err)
		return
	}
	n.FileURL = url
}
