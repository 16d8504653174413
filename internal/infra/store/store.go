// Package store persists hub state in a bbolt file with local-storage semantics:
// flat string keys mapped to string values.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const reservedPrefix = "__"

var (
	ErrStoreClosed = errors.New("hub store is closed")
	ErrInvalidKey  = errors.New("invalid store key")
)

type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	base, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if err := ensureSchema(base); err != nil {
		_ = base.Close()
		return nil, err
	}
	return &Store{db: base, path: trimmed}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	var (
		value string
		found bool
	)
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := kvBucket(tx)
		if err != nil {
			return err
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		value = string(raw)
		found = true
		return nil
	})
	return value, found, err
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := kvBucket(tx)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		return writeUpdatedAt(tx)
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := kvBucket(tx)
		if err != nil {
			return err
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return writeUpdatedAt(tx)
	})
}

// Keys lists stored keys with the given prefix in lexical order.
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := kvBucket(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(key, value []byte) error {
			if value == nil || isReservedKey(key) {
				return nil
			}
			if strings.HasPrefix(string(key), prefix) {
				keys = append(keys, string(key))
			}
			return nil
		})
	})
	sort.Strings(keys)
	return keys, err
}

// UpdatedAt returns the RFC3339 time of the last write, or "" when nothing was written.
func (s *Store) UpdatedAt() (string, error) {
	var value string
	err := s.view(func(tx *bolt.Tx) error {
		meta, err := metaBucket(tx)
		if err != nil {
			return err
		}
		value = string(meta.Get([]byte(updatedAtKey)))
		return nil
	})
	return value, err
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}

func validateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, reservedPrefix) {
		return ErrInvalidKey
	}
	return nil
}

func kvBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	bucket := root.Bucket([]byte(kvBucketName))
	if bucket == nil {
		return nil, fmt.Errorf("missing kv bucket")
	}
	return bucket, nil
}

func metaBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	meta := root.Bucket([]byte(metaBucketName))
	if meta == nil {
		return nil, fmt.Errorf("missing meta bucket")
	}
	return meta, nil
}

func writeUpdatedAt(tx *bolt.Tx) error {
	meta, err := metaBucket(tx)
	if err != nil {
		return err
	}
	value := time.Now().UTC().Format(time.RFC3339Nano)
	return meta.Put([]byte(updatedAtKey), []byte(value))
}

func isReservedKey(key []byte) bool {
	return strings.HasPrefix(string(key), reservedPrefix)
}
