package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomChoiceEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.register(t, "a@x.com")

	rec := ts.doMultipart(t, "/api/choices/custom", map[string]string{
		"phrase":   "chocolate milk",
		"category": "ordering",
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	choice := decodeData[map[string]any](t, rec)
	assert.Equal(t, "chocolate milk", choice["phrase"])
	assert.Equal(t, "ordering", choice["category"])
	assert.NotEmpty(t, choice["user"])
	assert.Len(t, ts.images.uploads, 1)
}

func TestCreateCustomChoiceRequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doMultipart(t, "/api/choices/custom", map[string]string{"phrase": "juice"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListChoicesAnonymous(t *testing.T) {
	ts := setupTestServer(t)
	seedChoice(t, ts, "Hello")
	cookie, _ := ts.register(t, "a@x.com")

	rec := ts.doMultipart(t, "/api/choices/custom", map[string]string{"phrase": "mine"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Anonymous callers see presets only
	rec2 := ts.do(t, http.MethodGet, "/api/board-choices", nil, nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	choices := decodeData[[]map[string]any](t, rec2)
	require.Len(t, choices, 1)
	assert.Equal(t, "Hello", choices[0]["phrase"])

	// The owner sees presets plus their own tile
	rec3 := ts.do(t, http.MethodGet, "/api/board-choices", nil, cookie)
	require.Equal(t, http.StatusOK, rec3.Code)
	choices = decodeData[[]map[string]any](t, rec3)
	assert.Len(t, choices, 2)
}

func TestSynthesizeEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.register(t, "a@x.com")

	rec := ts.do(t, http.MethodPost, "/api/polly/synthesize", map[string]string{
		"text": "I want juice",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", rec.Body.String())
}

func TestSynthesizeRequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/polly/synthesize", map[string]string{"text": "hi"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSynthesizeEmptyText(t *testing.T) {
	ts := setupTestServer(t)
	cookie, _ := ts.register(t, "a@x.com")

	rec := ts.do(t, http.MethodPost, "/api/polly/synthesize", map[string]string{"text": ""}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
