// Package kv wraps badger as the key-value store for sessions and reset tokens.
package kv

import (
	"time"

	"lireddit/internal/logging"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store is a thin key-value facade over a badger database.
type Store struct {
	db *badger.DB
}

// Open opens the badger database in dir. An empty dir runs badger in memory.
func Open(dir string, log *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(logging.NewBadgerLogger(log)).
		WithLoggingLevel(badger.WARNING)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening kv store at %q", dir)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored under key. ok is false when the key is missing or expired.
func (s *Store) Get(key string) (val []byte, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "kv get %q", key)
	}
	return val, true, nil
}

// Set stores val under key. A zero ttl never expires.
func (s *Store) Set(key string, val []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), val)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	return errors.Wrapf(err, "kv set %q", key)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrapf(err, "kv delete %q", key)
}

// Take reads and deletes key in one transaction, so only one caller ever sees the value.
func (s *Store) Take(key string) (val []byte, ok bool, err error) {
	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		if val, err = item.ValueCopy(nil); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "kv take %q", key)
	}
	return val, true, nil
}

// Healthy reports whether the store is open.
func (s *Store) Healthy() bool {
	return !s.db.IsClosed()
}

func (s *Store) Close() error {
	return s.db.Close()
}
