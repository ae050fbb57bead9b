package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketState = "client_state"

// BoltStore keeps the client state in a bbolt bucket
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize state bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		res := tx.Bucket([]byte(bucketState)).Get([]byte(key))
		if res == nil {
			return nil
		}
		value, found = string(res), true
		return nil
	})
	if err != nil {
		return "", false, translateBoltErr(err)
	}
	return value, found, nil
}

func (b *BoltStore) Set(key, value string) error {
	return translateBoltErr(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put([]byte(key), []byte(value))
	}))
}

func (b *BoltStore) Delete(key string) error {
	return translateBoltErr(b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Delete([]byte(key))
	}))
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

func translateBoltErr(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}
