package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "notebook"

// BoltStore keeps keys in a single bbolt bucket.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the bbolt file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		// Seek instead of Get so a stored empty value is told apart from a missing key.
		k, v := tx.Bucket([]byte(boltBucket)).Cursor().Seek([]byte(key))
		if k != nil && bytes.Equal(k, []byte(key)) {
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bolt[%s]: %w", key, err)
	}
	return out, nil
}

func (b *BoltStore) Set(_ context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set bolt[%s]: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete bolt[%s]: %w", key, err)
	}
	return nil
}

func (b *BoltStore) List(_ context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).ForEach(func(k, v []byte) error {
			result[string(k)] = append([]byte{}, v...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bolt: %w", err)
	}
	return result, nil
}

func (b *BoltStore) Clear(_ context.Context) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(boltBucket))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear bolt: %w", err)
	}
	return nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
