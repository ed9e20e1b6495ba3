package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilespeak/tilespeak-server/internal/domain"
	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

type choiceFixture struct {
	svc    *ChoiceService
	store  *store.Store
	images *fakeImageStore
}

func setupChoiceService(t *testing.T) *choiceFixture {
	t.Helper()
	s := setupTestStore(t)
	images := newFakeImageStore()
	return &choiceFixture{
		svc:    NewChoiceService(s, images, testLogger()),
		store:  s,
		images: images,
	}
}

func TestCreateCustomChoice(t *testing.T) {
	f := setupChoiceService(t)

	choice, err := f.svc.CreateCustom(context.Background(), "usr-1",
		"chocolate milk", "ordering", "milk.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "chocolate milk", choice.Phrase)
	assert.Equal(t, "ordering", choice.Category)
	assert.Equal(t, "usr-1", choice.OwnerID)
	assert.False(t, choice.IsPublic())
	assert.Contains(t, f.images.uploads, choice.ImageKey)
}

func TestCreateCustomChoiceDefaultCategory(t *testing.T) {
	f := setupChoiceService(t)

	choice, err := f.svc.CreateCustom(context.Background(), "usr-1",
		"juice", "", "juice.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, choice.Category)
}

func TestCreateCustomChoiceRequiresPhrase(t *testing.T) {
	f := setupChoiceService(t)

	_, err := f.svc.CreateCustom(context.Background(), "usr-1",
		"  ", "", "x.png", "image/png", strings.NewReader("png-bytes"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestCreateCustomChoiceUploadFailure(t *testing.T) {
	f := setupChoiceService(t)
	f.images.uploadErr = errUpstream

	_, err := f.svc.CreateCustom(context.Background(), "usr-1",
		"juice", "", "juice.png", "image/png", strings.NewReader("png-bytes"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))

	count, err := f.store.CountChoices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListVisible(t *testing.T) {
	f := setupChoiceService(t)
	ctx := context.Background()

	createTestChoice(t, f.store, "Hello", "")
	createTestChoice(t, f.store, "My juice", "usr-1")
	createTestChoice(t, f.store, "Their soda", "usr-2")

	views, err := f.svc.ListVisible(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, strings.HasPrefix(v.ImageURL, "https://images.test/"))
	}
}

func TestListVisibleAnonymousGetsPresetsOnly(t *testing.T) {
	f := setupChoiceService(t)
	ctx := context.Background()

	createTestChoice(t, f.store, "Hello", "")
	createTestChoice(t, f.store, "My juice", "usr-1")

	views, err := f.svc.ListVisible(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Hello", views[0].Phrase)
}
