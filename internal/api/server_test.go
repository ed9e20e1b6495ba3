package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/config"
	"github.com/tilespeak/tilespeak-server/internal/service"
	"github.com/tilespeak/tilespeak-server/internal/speech"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

// fakeImageStore mints a distinct URL per SignedURL call and records uploads.
type fakeImageStore struct {
	mu        sync.Mutex
	signCalls int
	uploads   map[string][]byte
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploads: make(map[string][]byte)}
}

func (f *fakeImageStore) Upload(_ context.Context, key, _ string, body io.Reader) error {
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
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	return fmt.Sprintf("https://images.test/%s?sig=%d", key, f.signCalls), nil
}

type fakeSynthesizer struct{}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) (*speech.Audio, error) {
	return &speech.Audio{
		Stream:      io.NopCloser(strings.NewReader("mp3-bytes")),
		ContentType: "audio/mpeg",
	}, nil
}

type testServer struct {
	handler http.Handler
	store   *store.Store
	images  *fakeImageStore
	synth   *fakeSynthesizer
	cfg     *config.Config
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		App:    config.AppConfig{Environment: "development", LogLevel: "error"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Auth: config.AuthConfig{
			SessionDuration: time.Hour,
			CookieName:      "tilespeak_session",
		},
	}

	s, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{0x42}, 32), cfg.Auth.SessionDuration)
	require.NoError(t, err)

	images := newFakeImageStore()
	synth := &fakeSynthesizer{}

	services := Services{
		Auth:    service.NewAuthService(s, tokens, logger),
		Boards:  service.NewBoardService(s, images, logger),
		Choices: service.NewChoiceService(s, images, logger),
		Speech:  service.NewSpeechService(synth, logger),
	}

	srv := NewServer(cfg, services, tokens, logger)
	return &testServer{
		handler: srv.Handler(),
		store:   s,
		images:  images,
		synth:   synth,
		cfg:     cfg,
	}
}

// envelope mirrors the response wire format for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}

// register creates an account and returns the session cookie plus the user ID.
func (ts *testServer) register(t *testing.T, email string) (*http.Cookie, string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/users", map[string]string{
		"email":    email,
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user := decodeData[map[string]any](t, rec)
	return sessionCookie(t, rec, ts.cfg.Auth.CookieName), user["id"].(string)
}

func (ts *testServer) doMultipart(t *testing.T, path string, fields map[string]string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("image", "tile.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}
