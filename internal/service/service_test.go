package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/domain"
	"github.com/tilespeak/tilespeak-server/internal/id"
	"github.com/tilespeak/tilespeak-server/internal/speech"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func setupTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, 32)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	return tokens
}

// fakeImageStore mints a distinct URL on every SignedURL call so tests can
// observe per-read freshness. Uploads are recorded in memory.
type fakeImageStore struct {
	mu        sync.Mutex
	signCalls int
	uploads   map[string][]byte
	signErr   error
	uploadErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploads: make(map[string][]byte)}
}

func (f *fakeImageStore) Upload(_ context.Context, key, _ string, body io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	return nil
}

func (f *fakeImageStore) SignedURL(_ context.Context, key string) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	return fmt.Sprintf("https://images.test/%s?sig=%d", key, f.signCalls), nil
}

// fakeSynthesizer returns a canned MP3 payload.
type fakeSynthesizer struct {
	err  error
	last string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) (*speech.Audio, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = text
	return &speech.Audio{
		Stream:      io.NopCloser(bytes.NewReader([]byte("mp3-bytes"))),
		ContentType: "audio/mpeg",
	}, nil
}

func createTestUser(t *testing.T, s *store.Store, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Language:     domain.DefaultLanguage,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	user.ID = id.MustNew(id.PrefixUser)
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestChoice(t *testing.T, s *store.Store, phrase, ownerID string) *domain.BoardChoice {
	t.Helper()
	choice := &domain.BoardChoice{
		Phrase:   phrase,
		ImageKey: "images/" + phrase + ".png",
		Category: "basic",
		OwnerID:  ownerID,
	}
	choice.ID = id.MustNew(id.PrefixChoice)
	choice.InitTimestamps()
	require.NoError(t, s.CreateChoice(context.Background(), choice))
	return choice
}

var errUpstream = errors.New("upstream unavailable")
