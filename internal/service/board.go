package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tilespeak/tilespeak-server/internal/domain"
	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
	"github.com/tilespeak/tilespeak-server/internal/id"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

// BoardService is the single authority for reading and mutating boards.
// Every mutation and every owner-scoped read checks the caller's identity
// against the board's owner.
type BoardService struct {
	store  *store.Store
	images ImageStore
	logger *slog.Logger
}

// NewBoardService creates a BoardService.
func NewBoardService(s *store.Store, images ImageStore, logger *slog.Logger) *BoardService {
	return &BoardService{store: s, images: images, logger: logger}
}

// CreateBoardRequest is the payload for creating a board.
type CreateBoardRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	ChoiceIDs []string `json:"choices"`
}

// UpdateBoardRequest is the payload for mutating a board. All fields are
// optional; adds are applied before removes.
type UpdateBoardRequest struct {
	Name          string   `json:"name"`
	AddChoices    []string `json:"addChoices"`
	RemoveChoices []string `json:"removeChoices"`
}

// ChoiceView is a display-ready referenced tile: the stored image key has
// been swapped for a fresh signed URL.
type ChoiceView struct {
	ID       string `json:"id"`
	Phrase   string `json:"phrase"`
	ImageURL string `json:"image"`
	Category string `json:"category"`
}

// CustomChoiceView is a display-ready embedded tile.
type CustomChoiceView struct {
	ID       string `json:"id"`
	Phrase   string `json:"phrase"`
	ImageURL string `json:"image"`
}

// BoardView is the display-ready representation of a board. Signed URLs are
// minted per read and must never be persisted or cached.
type BoardView struct {
	ID            string             `json:"id"`
	OwnerID       string             `json:"user"`
	Name          string             `json:"name"`
	Choices       []ChoiceView       `json:"choices"`
	CustomChoices []CustomChoiceView `json:"custom_choices"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Create makes a new board for the given owner. The owner must exist; the
// initial choice references are stored as given, without existence checks.
func (s *BoardService) Create(ctx context.Context, req CreateBoardRequest) (*domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	ok, err := s.store.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, apperrors.Internal(err, "checking owner")
	}
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}

	board := &domain.Board{
		OwnerID:       req.UserID,
		Name:          req.Name,
		ChoiceIDs:     req.ChoiceIDs,
		CustomChoices: []domain.CustomChoice{},
	}
	if board.ChoiceIDs == nil {
		board.ChoiceIDs = []string{}
	}
	board.ID, err = id.New(id.PrefixBoard)
	if err != nil {
		return nil, apperrors.Internal(err, "generating board id")
	}
	board.InitTimestamps()

	if err := s.store.CreateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "creating board")
	}
	return board, nil
}

// Get returns a single board with image keys resolved to signed URLs.
// Only the owner may read a board this way.
func (s *BoardService) Get(ctx context.Context, callerID, boardID string) (*BoardView, error) {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}
	return s.resolveBoard(ctx, board)
}

// BoardEntries is the tile-only projection of a board, for clients that
// already hold the board metadata.
type BoardEntries struct {
	Choices       []ChoiceView       `json:"choices"`
	CustomChoices []CustomChoiceView `json:"custom_choices"`
}

// Entries returns just the board's display-ready tiles. Ownership is
// enforced the same as a full board read.
func (s *BoardService) Entries(ctx context.Context, callerID, boardID string) (*BoardEntries, error) {
	view, err := s.Get(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}
	return &BoardEntries{
		Choices:       view.Choices,
		CustomChoices: view.CustomChoices,
	}, nil
}

// First returns the caller's earliest-created board. The requested user must
// be the caller; the query is inherently self-scoped.
func (s *BoardService) First(ctx context.Context, callerID, userID string) (*BoardView, error) {
	if userID != callerID {
		return nil, apperrors.Forbidden("cannot read another user's boards")
	}
	board, err := s.store.FirstBoardByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, apperrors.NotFound("no boards found")
		}
		return nil, apperrors.Internal(err, "fetching first board")
	}
	return s.resolveBoard(ctx, board)
}

// List returns all of the caller's boards without resolving image URLs;
// callers re-read a single board when they need display-ready data. A caller
// with no boards gets NOT_FOUND rather than an empty list.
func (s *BoardService) List(ctx context.Context, callerID string) ([]*domain.Board, error) {
	boards, err := s.store.ListBoardsByOwner(ctx, callerID)
	if err != nil {
		return nil, apperrors.Internal(err, "listing boards")
	}
	if len(boards) == 0 {
		return nil, apperrors.NotFound("no boards found")
	}
	return boards, nil
}

// Update applies a partial mutation: rename if a non-empty name is given,
// then append added references, then filter out removed ones. Added
// references are not checked for existence and not deduplicated; removing an
// absent reference is a no-op. Returns the board without resolving URLs.
func (s *BoardService) Update(ctx context.Context, callerID, boardID string, req UpdateBoardRequest) (*domain.Board, error) {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	board.AddChoices(req.AddChoices)
	board.RemoveChoices(req.RemoveChoices)
	board.Touch()

	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "updating board")
	}
	s.logger.Info("board updated", "board_id", board.ID,
		"added", len(req.AddChoices), "removed", len(req.RemoveChoices))
	return board, nil
}

// Delete removes the board. Referenced choices are shared and survive;
// embedded custom entries die with the board.
func (s *BoardService) Delete(ctx context.Context, callerID, boardID string) error {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBoard(ctx, board.ID); err != nil {
		return apperrors.Internal(err, "deleting board")
	}
	return nil
}

// AddChoice appends a single choice reference. Unlike bulk create and
// update, this path verifies the choice exists first. Duplicates are
// permitted.
func (s *BoardService) AddChoice(ctx context.Context, callerID, boardID, choiceID string) (*domain.Board, error) {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.ChoiceExists(ctx, choiceID)
	if err != nil {
		return nil, apperrors.Internal(err, "checking choice")
	}
	if !ok {
		return nil, apperrors.NotFound("board choice not found")
	}

	board.AddChoices([]string{choiceID})
	board.Touch()
	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "updating board")
	}
	return board, nil
}

// RemoveChoice drops a single choice reference. Removing a reference the
// board does not hold is a silent no-op.
func (s *BoardService) RemoveChoice(ctx context.Context, callerID, boardID, choiceID string) (*domain.Board, error) {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	board.RemoveChoices([]string{choiceID})
	board.Touch()
	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "updating board")
	}
	return board, nil
}

// AddCustomEntry uploads an image and embeds a new custom tile on the board.
// The entry belongs to this board alone and is never shared.
func (s *BoardService) AddCustomEntry(ctx context.Context, callerID, boardID, phrase, filename, contentType string, image io.Reader) (*domain.Board, error) {
	if strings.TrimSpace(phrase) == "" {
		return nil, apperrors.InvalidInput("phrase is required")
	}

	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	key := imageKey(filename)
	if err := s.images.Upload(ctx, key, contentType, image); err != nil {
		return nil, apperrors.Upstream(err, "uploading image")
	}

	customID, err := id.New(id.PrefixCustom)
	if err != nil {
		return nil, apperrors.Internal(err, "generating entry id")
	}
	board.CustomChoices = append(board.CustomChoices, domain.CustomChoice{
		ID:       customID,
		Phrase:   phrase,
		ImageKey: key,
	})
	board.Touch()

	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "updating board")
	}
	s.logger.Info("custom entry added", "board_id", board.ID, "entry_id", customID)
	return board, nil
}

// RemoveCustomEntry deletes an embedded custom tile by ID. Unlike choice
// reference removal, a missing entry is an error.
func (s *BoardService) RemoveCustomEntry(ctx context.Context, callerID, boardID, customID string) (*domain.Board, error) {
	board, err := s.getOwnedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	if !board.RemoveCustomChoice(customID) {
		return nil, apperrors.NotFound("custom entry not found")
	}
	board.Touch()

	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Internal(err, "updating board")
	}
	return board, nil
}

// getOwnedBoard fetches a board and enforces that the caller owns it.
func (s *BoardService) getOwnedBoard(ctx context.Context, callerID, boardID string) (*domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(boardID, id.PrefixBoard+"-") {
		return nil, apperrors.InvalidInput("invalid board id")
	}

	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) {
			return nil, apperrors.NotFound("board not found")
		}
		return nil, apperrors.Internal(err, "fetching board")
	}
	if !board.OwnedBy(callerID) {
		return nil, apperrors.Forbidden("not the board owner")
	}
	return board, nil
}

// resolveBoard assembles the display-ready view: one batched choice lookup,
// then concurrent signed URL resolution for every image. All URLs must
// resolve or the whole read fails.
func (s *BoardService) resolveBoard(ctx context.Context, board *domain.Board) (*BoardView, error) {
	choices, err := s.store.GetChoicesByIDs(ctx, board.ChoiceIDs)
	if err != nil {
		return nil, apperrors.Internal(err, "fetching board choices")
	}

	view := &BoardView{
		ID:            board.ID,
		OwnerID:       board.OwnerID,
		Name:          board.Name,
		Choices:       make([]ChoiceView, len(choices)),
		CustomChoices: make([]CustomChoiceView, len(board.CustomChoices)),
		CreatedAt:     board.CreatedAt,
		UpdatedAt:     board.UpdatedAt,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, choice := range choices {
		g.Go(func() error {
			url, err := s.images.SignedURL(gctx, choice.ImageKey)
			if err != nil {
				return apperrors.Upstream(err, "resolving image url")
			}
			view.Choices[i] = ChoiceView{
				ID:       choice.ID,
				Phrase:   choice.Phrase,
				ImageURL: url,
				Category: choice.Category,
			}
			return nil
		})
	}
	for i, custom := range board.CustomChoices {
		g.Go(func() error {
			url, err := s.images.SignedURL(gctx, custom.ImageKey)
			if err != nil {
				return apperrors.Upstream(err, "resolving image url")
			}
			view.CustomChoices[i] = CustomChoiceView{
				ID:       custom.ID,
				Phrase:   custom.Phrase,
				ImageURL: url,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// imageKey derives a collision-resistant object key for an upload.
func imageKey(filename string) string {
	name := strings.ReplaceAll(strings.TrimSpace(filename), " ", "_")
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("uploads/%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], name)
}
