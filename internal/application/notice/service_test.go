package notice

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNoticeStore struct{ mock.Mock }

func (m *mockNoticeStore) Put(ctx context.Context, n *domain.Notice) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNoticeStore) Get(ctx context.Context, noticeID string) (*domain.Notice, error) {
	args := m.Called(ctx, noticeID)
	if n, _ := args.Get(0).(*domain.Notice); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoticeStore) List(ctx context.Context) ([]domain.Notice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Notice), args.Error(1)
}
func (m *mockNoticeStore) Update(ctx context.Context, noticeID string, updates map[string]interface{}) error {
	return m.Called(ctx, noticeID, updates).Error(0)
}
func (m *mockNoticeStore) Delete(ctx context.Context, noticeID string) error {
	return m.Called(ctx, noticeID).Error(0)
}

type mockFileStore struct{ mock.Mock }

func (m *mockFileStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockFileStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockFileStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type fakePublisher struct {
	err   error
	calls int
}

func (p *fakePublisher) PublishNotice(ctx context.Context, title, body string) error {
	p.calls++
	return p.err
}

type fakeSummarizer struct {
	enabled bool
	summary string
	err     error
}

func (s *fakeSummarizer) Enabled() bool { return s.enabled }
func (s *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.summary, s.err
}

// syncDeps wires a service whose fan-out runs inline so tests can assert
// on the side effects deterministically.
func syncDeps(notices *mockNoticeStore, files *mockFileStore, pub *fakePublisher, sum *fakeSummarizer) ServiceDeps {
	return ServiceDeps{
		NoticeRepo: notices,
		Files:      files,
		Publisher:  pub,
		Summarizer: sum,
		Dispatch:   func(fn func()) { fn() },
	}
}

// A broken SNS topic must not block publishing the notice itself.
func TestCreate_SurvivesPublishFailure(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notice) bool {
		return n.NoticeID != "" && n.Title == "Holiday"
	})).Return(nil)

	pub := &fakePublisher{err: errors.New("topic unreachable")}
	svc := NewService(syncDeps(notices, &mockFileStore{}, pub, &fakeSummarizer{}))

	n, err := svc.Create(context.Background(), domain.NoticeInput{Title: "Holiday", Body: "Campus closed Friday."})

	require.NoError(t, err)
	assert.Equal(t, "Holiday", n.Title)
	assert.Equal(t, 1, pub.calls)
	notices.AssertExpectations(t)
}

func TestCreate_StoresSummary(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Put", mock.Anything, mock.Anything).Return(nil)
	notices.On("Update", mock.Anything, mock.Anything, map[string]interface{}{
		fieldSummary: "campus closed fri",
	}).Return(nil)

	sum := &fakeSummarizer{enabled: true, summary: "campus closed fri"}
	svc := NewService(syncDeps(notices, &mockFileStore{}, &fakePublisher{}, sum))

	_, err := svc.Create(context.Background(), domain.NoticeInput{Title: "Holiday", Body: "Campus closed Friday."})

	require.NoError(t, err)
	notices.AssertExpectations(t)
}

func TestCreate_NoSummaryWhenDisabled(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(syncDeps(notices, &mockFileStore{}, &fakePublisher{}, &fakeSummarizer{enabled: false}))

	_, err := svc.Create(context.Background(), domain.NoticeInput{Title: "Holiday", Body: "Campus closed Friday."})

	require.NoError(t, err)
	notices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_RemovesAttachmentFirst(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Get", mock.Anything, "n-1").Return(&domain.Notice{NoticeID: "n-1", FileKey: "notices/n-1/timetable.pdf"}, nil)
	notices.On("Delete", mock.Anything, "n-1").Return(nil)

	files := &mockFileStore{}
	files.On("Delete", mock.Anything, "notices/n-1/timetable.pdf").Return(nil)

	svc := NewService(syncDeps(notices, files, &fakePublisher{}, &fakeSummarizer{}))

	require.NoError(t, svc.Delete(context.Background(), "n-1"))
	files.AssertExpectations(t)
	notices.AssertExpectations(t)
}

// An orphaned S3 object is preferable to an undeletable notice.
func TestDelete_SurvivesAttachmentDeleteFailure(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Get", mock.Anything, "n-1").Return(&domain.Notice{NoticeID: "n-1", FileKey: "notices/n-1/timetable.pdf"}, nil)
	notices.On("Delete", mock.Anything, "n-1").Return(nil)

	files := &mockFileStore{}
	files.On("Delete", mock.Anything, mock.Anything).Return(errors.New("access denied"))

	svc := NewService(syncDeps(notices, files, &fakePublisher{}, &fakeSummarizer{}))

	require.NoError(t, svc.Delete(context.Background(), "n-1"))
}

func TestGet_AttachesPresignedURL(t *testing.T) {
	notices := &mockNoticeStore{}
	notices.On("Get", mock.Anything, "n-1").Return(&domain.Notice{NoticeID: "n-1", FileKey: "notices/n-1/timetable.pdf"}, nil)

	files := &mockFileStore{}
	files.On("PresignedURL", mock.Anything, "notices/n-1/timetable.pdf", presignTTL).
		Return("https://bucket.s3.amazonaws.com/signed", nil)

	svc := NewService(syncDeps(notices, files, &fakePublisher{}, &fakeSummarizer{}))

	n, err := svc.Get(context.Background(), "n-1")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/signed", n.FileURL)
}
