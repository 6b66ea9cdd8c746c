// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/resound-fm/resound/internal/models"
)

// MockSource is a configurable test double for the list engine's remote
// source. Nil function fields return an empty page.
type MockSource struct {
	UserFn            func(ctx context.Context, userID int64) (*models.RawUser, error)
	TrackFavoritersFn func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	TrackRepostersFn  func(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserFollowersFn   func(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserSupportersFn  func(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
	UserSupportingFn  func(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error)
}

func (m *MockSource) User(ctx context.Context, userID int64) (*models.RawUser, error) {
	if m.UserFn == nil {
		return nil, errors.New("no user source configured")
	}
	return m.UserFn(ctx, userID)
}

func (m *MockSource) TrackFavoriters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	if m.TrackFavoritersFn == nil {
		return nil, nil
	}
	return m.TrackFavoritersFn(ctx, trackID, page, pageSize, actorID)
}

func (m *MockSource) TrackReposters(ctx context.Context, trackID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	if m.TrackRepostersFn == nil {
		return nil, nil
	}
	return m.TrackRepostersFn(ctx, trackID, page, pageSize, actorID)
}

func (m *MockSource) UserFollowers(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	if m.UserFollowersFn == nil {
		return nil, nil
	}
	return m.UserFollowersFn(ctx, userID, page, pageSize, actorID)
}

func (m *MockSource) UserSupporters(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	if m.UserSupportersFn == nil {
		return nil, nil
	}
	return m.UserSupportersFn(ctx, userID, page, pageSize, actorID)
}

func (m *MockSource) UserSupporting(ctx context.Context, userID int64, page, pageSize int, actorID int64) ([]models.Raw, error) {
	if m.UserSupportingFn == nil {
		return nil, nil
	}
	return m.UserSupportingFn(ctx, userID, page, pageSize, actorID)
}

// RawUsers builds user payloads with sequential ids starting at first.
func RawUsers(first int64, count int) []models.Raw {
	raws := make([]models.Raw, count)
	for i := range raws {
		id := first + int64(i)
		raws[i] = NewRawUser(id)
	}
	return raws
}

// NewRawUser builds a minimal valid user payload.
func NewRawUser(id int64) *models.RawUser {
	return &models.RawUser{UserID: id, Handle: handleFor(id), Name: handleFor(id)}
}

func handleFor(id int64) string {
	const letters = "abcdefghij"
	buf := []byte("user_")
	for id > 0 {
		buf = append(buf, letters[id%10])
		id /= 10
	}
	return string(buf)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
