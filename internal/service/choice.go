package service

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tilespeak/tilespeak-server/internal/domain"
	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
	"github.com/tilespeak/tilespeak-server/internal/id"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

// ChoiceService manages the shared tile catalog: public presets plus
// user-created custom tiles.
type ChoiceService struct {
	store  *store.Store
	images ImageStore
	logger *slog.Logger
}

// NewChoiceService creates a ChoiceService.
func NewChoiceService(s *store.Store, images ImageStore, logger *slog.Logger) *ChoiceService {
	return &ChoiceService{store: s, images: images, logger: logger}
}

// CreateCustom uploads the image and creates a shared tile owned by the
// caller. The tile is not attached to any board; attaching is a separate
// add-choice call.
func (s *ChoiceService) CreateCustom(ctx context.Context, ownerID, phrase, category, filename, contentType string, image io.Reader) (*domain.BoardChoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(phrase) == "" {
		return nil, apperrors.InvalidInput("phrase is required")
	}
	if category == "" {
		category = domain.DefaultCategory
	}

	key := imageKey(filename)
	if err := s.images.Upload(ctx, key, contentType, image); err != nil {
		return nil, apperrors.Upstream(err, "uploading image")
	}

	choice := &domain.BoardChoice{
		Phrase:   phrase,
		ImageKey: key,
		Category: category,
		OwnerID:  ownerID,
	}
	var err error
	choice.ID, err = id.New(id.PrefixChoice)
	if err != nil {
		return nil, apperrors.Internal(err, "generating choice id")
	}
	choice.InitTimestamps()

	if err := s.store.CreateChoice(ctx, choice); err != nil {
		return nil, apperrors.Internal(err, "creating choice")
	}
	return choice, nil
}

// ListVisible returns the tiles the caller may use: all public presets plus
// their own custom tiles, display-ready with signed image URLs. An empty
// callerID lists presets only.
func (s *ChoiceService) ListVisible(ctx context.Context, callerID string) ([]ChoiceView, error) {
	choices, err := s.store.ListChoicesVisibleTo(ctx, callerID)
	if err != nil {
		return nil, apperrors.Internal(err, "listing choices")
	}

	views := make([]ChoiceView, len(choices))
	g, gctx := errgroup.WithContext(ctx)
	for i, choice := range choices {
		g.Go(func() error {
			url, err := s.images.SignedURL(gctx, choice.ImageKey)
			if err != nil {
				return apperrors.Upstream(err, "resolving image url")
			}
			views[i] = ChoiceView{
				ID:       choice.ID,
				Phrase:   choice.Phrase,
				ImageURL: url,
				Category: choice.Category,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
