package store

import (
	"context"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/tilespeak/tilespeak-server/internal/domain"
)

const (
	userKeyPrefix      = "user:"
	userEmailIdxPrefix = "idx:users:email:"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

func userKey(id string) string {
	return userKeyPrefix + id
}

func userEmailKey(email string) string {
	return userEmailIdxPrefix + strings.ToLower(email)
}

// CreateUser stores a new user and claims their email in the unique index.
// Returns ErrEmailTaken if another account already uses the email.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, userEmailKey(user.Email))
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		if err := txn.Set([]byte(userEmailKey(user.Email)), []byte(user.ID)); err != nil {
			return err
		}
		return set(txn, userKey(user.ID), user)
	})
	if err != nil {
		return err
	}
	s.logger.Info("user created", "user_id", user.ID)
	return nil
}

// GetUser fetches a user by ID. Returns ErrUserNotFound if absent.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, userKey(id), &user)
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user via the email index. Lookup is
// case-insensitive. Returns ErrUserNotFound if no account uses the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailKey(email)))
		if err != nil {
			return err
		}
		var userID string
		if err := item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		}); err != nil {
			return err
		}
		return get(txn, userKey(userID), &user)
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser overwrites an existing user record.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, userKey(user.ID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		return set(txn, userKey(user.ID), user)
	})
}

// UserExists reports whether a user with the given ID exists.
func (s *Store) UserExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		ok, err = exists(txn, userKey(id))
		return err
	})
	return ok, err
}
