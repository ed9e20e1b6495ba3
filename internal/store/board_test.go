package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilespeak/tilespeak-server/internal/domain"
	"github.com/tilespeak/tilespeak-server/internal/id"
)

func newTestBoard(t *testing.T, ownerID, name string) *domain.Board {
	t.Helper()
	board := &domain.Board{
		OwnerID:       ownerID,
		Name:          name,
		ChoiceIDs:     []string{},
		CustomChoices: []domain.CustomChoice{},
	}
	board.ID = id.MustNew(id.PrefixBoard)
	board.InitTimestamps()
	return board
}

func TestCreateAndGetBoard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	board := newTestBoard(t, "usr-1", "Breakfast")
	board.ChoiceIDs = []string{"cho-1", "cho-2"}
	require.NoError(t, s.CreateBoard(ctx, board))

	got, err := s.GetBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", got.Name)
	assert.Equal(t, "usr-1", got.OwnerID)
	assert.Equal(t, []string{"cho-1", "cho-2"}, got.ChoiceIDs)
}

func TestGetBoardNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetBoard(context.Background(), "brd-missing")
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestUpdateBoard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	board := newTestBoard(t, "usr-1", "Lunch")
	require.NoError(t, s.CreateBoard(ctx, board))

	board.Name = "Dinner"
	board.Touch()
	require.NoError(t, s.UpdateBoard(ctx, board))

	got, err := s.GetBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Name)
}

func TestUpdateBoardNotFound(t *testing.T) {
	s := setupTestStore(t)

	board := newTestBoard(t, "usr-1", "Ghost")
	err := s.UpdateBoard(context.Background(), board)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestDeleteBoard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	board := newTestBoard(t, "usr-1", "Snacks")
	require.NoError(t, s.CreateBoard(ctx, board))

	require.NoError(t, s.DeleteBoard(ctx, board.ID))

	_, err := s.GetBoard(ctx, board.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)

	boards, err := s.ListBoardsByOwner(ctx, "usr-1")
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestDeleteBoardNotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.DeleteBoard(context.Background(), "brd-missing")
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestListBoardsByOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newTestBoard(t, "usr-1", "First")
	second := newTestBoard(t, "usr-1", "Second")
	other := newTestBoard(t, "usr-2", "Other")
	require.NoError(t, s.CreateBoard(ctx, first))
	require.NoError(t, s.CreateBoard(ctx, second))
	require.NoError(t, s.CreateBoard(ctx, other))

	boards, err := s.ListBoardsByOwner(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "First", boards[0].Name)
	assert.Equal(t, "Second", boards[1].Name)
}

func TestListBoardsByOwnerEmpty(t *testing.T) {
	s := setupTestStore(t)

	boards, err := s.ListBoardsByOwner(context.Background(), "usr-none")
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestFirstBoardByOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newTestBoard(t, "usr-1", "Oldest")
	second := newTestBoard(t, "usr-1", "Newer")
	require.NoError(t, s.CreateBoard(ctx, first))
	require.NoError(t, s.CreateBoard(ctx, second))

	got, err := s.FirstBoardByOwner(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Oldest", got.Name)
}

func TestFirstBoardByOwnerNone(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.FirstBoardByOwner(context.Background(), "usr-none")
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestFirstBoardAfterDeletingOldest(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newTestBoard(t, "usr-1", "Oldest")
	second := newTestBoard(t, "usr-1", "Newer")
	require.NoError(t, s.CreateBoard(ctx, first))
	require.NoError(t, s.CreateBoard(ctx, second))
	require.NoError(t, s.DeleteBoard(ctx, first.ID))

	got, err := s.FirstBoardByOwner(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Newer", got.Name)
}
