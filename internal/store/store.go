// Package store persists domain entities in a Badger key-value database.
//
// Keys are namespaced by entity prefix ("user:", "board:", "choice:").
// Secondary indexes live under "idx:" keys pointing back at primary keys.
package store

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a Badger database with typed accessors for each entity.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database under dataDir.
func New(dataDir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(filepath.Join(dataDir, "db"))
	opts.Logger = nil // Badger's own logging is too noisy; we log at this layer

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger.Info("database opened", "dir", dataDir)
	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.logger.Info("closing database")
	return s.db.Close()
}

// get reads and unmarshals the value at key into v inside txn.
// Returns badger.ErrKeyNotFound if the key is absent.
func get(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// set marshals v and writes it at key inside txn.
func set(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// unmarshalValue decodes a raw stored value into v.
func unmarshalValue(val []byte, v any) error {
	return json.Unmarshal(val, v)
}

// exists reports whether key is present inside txn.
func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
