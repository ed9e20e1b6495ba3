package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/tilespeak/tilespeak-server/internal/domain"
)

const choiceKeyPrefix = "choice:"

var ErrChoiceNotFound = errors.New("board choice not found")

func choiceKey(id string) string {
	return choiceKeyPrefix + id
}

// CreateChoice stores a new board choice.
func (s *Store) CreateChoice(ctx context.Context, choice *domain.BoardChoice) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return set(txn, choiceKey(choice.ID), choice)
	})
	if err != nil {
		return err
	}
	s.logger.Info("choice created", "choice_id", choice.ID, "phrase", choice.Phrase)
	return nil
}

// GetChoice fetches a choice by ID. Returns ErrChoiceNotFound if absent.
func (s *Store) GetChoice(ctx context.Context, id string) (*domain.BoardChoice, error) {
	var choice domain.BoardChoice
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, choiceKey(id), &choice)
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrChoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &choice, nil
}

// GetChoicesByIDs fetches choices in one transaction, preserving the order
// and multiplicity of ids. IDs that resolve to nothing are skipped: boards
// may carry dangling references since bulk create and update do not validate
// them.
func (s *Store) GetChoicesByIDs(ctx context.Context, ids []string) ([]*domain.BoardChoice, error) {
	choices := make([]*domain.BoardChoice, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var choice domain.BoardChoice
			if err := get(txn, choiceKey(id), &choice); err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			choices = append(choices, &choice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return choices, nil
}

// ChoiceExists reports whether a choice with the given ID exists.
func (s *Store) ChoiceExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		ok, err = exists(txn, choiceKey(id))
		return err
	})
	return ok, err
}

// ListChoicesVisibleTo scans all choices and returns the public presets plus
// the given user's own. Pass an empty userID for unauthenticated callers to
// get presets only.
func (s *Store) ListChoicesVisibleTo(ctx context.Context, userID string) ([]*domain.BoardChoice, error) {
	var choices []*domain.BoardChoice
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(choiceKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var choice domain.BoardChoice
			err := it.Item().Value(func(val []byte) error {
				return unmarshalValue(val, &choice)
			})
			if err != nil {
				return err
			}
			if choice.VisibleTo(userID) {
				choices = append(choices, &choice)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return choices, nil
}

// CountChoices returns the total number of stored choices.
func (s *Store) CountChoices(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(choiceKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
