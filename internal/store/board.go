package store

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/tilespeak/tilespeak-server/internal/domain"
)

const (
	boardKeyPrefix      = "board:"
	boardOwnerIdxPrefix = "idx:boards:owner:"
)

var ErrBoardNotFound = errors.New("board not found")

func boardKey(id string) string {
	return boardKeyPrefix + id
}

func boardOwnerKey(ownerID string) string {
	return boardOwnerIdxPrefix + ownerID
}

// ownerBoardIDs reads the owner index entry, an ordered list of board IDs.
// A missing entry is an empty list.
func ownerBoardIDs(txn *badger.Txn, ownerID string) ([]string, error) {
	var ids []string
	err := get(txn, boardOwnerKey(ownerID), &ids)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateBoard stores a new board and appends it to the owner's index.
// Index order is creation order, so the first entry is the oldest board.
func (s *Store) CreateBoard(ctx context.Context, board *domain.Board) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		ids, err := ownerBoardIDs(txn, board.OwnerID)
		if err != nil {
			return err
		}
		if err := set(txn, boardOwnerKey(board.OwnerID), append(ids, board.ID)); err != nil {
			return err
		}
		return set(txn, boardKey(board.ID), board)
	})
	if err != nil {
		return err
	}
	s.logger.Info("board created", "board_id", board.ID, "owner_id", board.OwnerID)
	return nil
}

// GetBoard fetches a board by ID. Returns ErrBoardNotFound if absent.
func (s *Store) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	var board domain.Board
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, boardKey(id), &board)
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoard overwrites an existing board record.
func (s *Store) UpdateBoard(ctx context.Context, board *domain.Board) error {
	return s.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, boardKey(board.ID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrBoardNotFound
		}
		return set(txn, boardKey(board.ID), board)
	})
}

// DeleteBoard removes a board and its owner index entry. The board's choice
// references are dropped with it; the referenced choices themselves are
// untouched.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var board domain.Board
		if err := get(txn, boardKey(id), &board); err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrBoardNotFound
			}
			return err
		}

		ids, err := ownerBoardIDs(txn, board.OwnerID)
		if err != nil {
			return err
		}
		ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
		if len(ids) == 0 {
			if err := txn.Delete([]byte(boardOwnerKey(board.OwnerID))); err != nil {
				return err
			}
		} else if err := set(txn, boardOwnerKey(board.OwnerID), ids); err != nil {
			return err
		}

		return txn.Delete([]byte(boardKey(id)))
	})
	if err != nil {
		return err
	}
	s.logger.Info("board deleted", "board_id", id)
	return nil
}

// ListBoardsByOwner returns all boards owned by the user in creation order.
func (s *Store) ListBoardsByOwner(ctx context.Context, ownerID string) ([]*domain.Board, error) {
	var boards []*domain.Board
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := ownerBoardIDs(txn, ownerID)
		if err != nil {
			return err
		}
		boards = make([]*domain.Board, 0, len(ids))
		for _, id := range ids {
			var board domain.Board
			if err := get(txn, boardKey(id), &board); err != nil {
				return err
			}
			boards = append(boards, &board)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// FirstBoardByOwner returns the user's oldest board, or ErrBoardNotFound if
// the user has none.
func (s *Store) FirstBoardByOwner(ctx context.Context, ownerID string) (*domain.Board, error) {
	var board domain.Board
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := ownerBoardIDs(txn, ownerID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrBoardNotFound
		}
		return get(txn, boardKey(ids[0]), &board)
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}
