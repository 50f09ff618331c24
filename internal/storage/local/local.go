// Package local is the durable offline store: denormalized caches of the last
// known server snapshots, the FIFO queue of not-yet-submitted batches and the
// last-sync timestamp. Every accessor opens one transaction, performs one
// logical operation and closes it.
package local

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"jewelflow/internal/storage"
)

var (
	bucketOrders  = []byte("orders")
	bucketDesigns = []byte("master_designs")
	bucketQueue   = []byte("queue")
	bucketMeta    = []byte("meta")

	keyLastSync = []byte("last_sync")
)

type Store struct {
	db *bolt.DB
}

func New(path string) (*Store, error) {
	const op = "storage.local.New"

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketOrders, bucketDesigns, bucketQueue, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceOrders atomically swaps the cached order snapshot, keyed by orderNo.
func (s *Store) ReplaceOrders(orders []storage.Order) error {
	const op = "storage.local.ReplaceOrders"

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketOrders); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketOrders)
		if err != nil {
			return err
		}
		for _, order := range orders {
			if order.OrderNo == "" {
				continue
			}
			data, err := json.Marshal(order)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(order.OrderNo), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CachedOrders returns the raw cached order records. Callers sanitize them
// before use; the store itself never rejects what it finds.
func (s *Store) CachedOrders() ([]json.RawMessage, error) {
	return s.rawBucket(bucketOrders, "storage.local.CachedOrders")
}

// ReplaceMasterDesigns atomically swaps the cached registry snapshot, keyed by
// design code.
func (s *Store) ReplaceMasterDesigns(designs []storage.MasterDesign) error {
	const op = "storage.local.ReplaceMasterDesigns"

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketDesigns); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketDesigns)
		if err != nil {
			return err
		}
		for _, design := range designs {
			if design.DesignCode == "" {
				continue
			}
			data, err := json.Marshal(design)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(design.DesignCode), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) CachedMasterDesigns() ([]json.RawMessage, error) {
	return s.rawBucket(bucketDesigns, "storage.local.CachedMasterDesigns")
}

func (s *Store) rawBucket(bucket []byte, op string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			out = append(out, json.RawMessage(append([]byte(nil), v...)))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Store) SetLastSync(t time.Time) error {
	const op = "storage.local.SetLastSync"

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyLastSync, []byte(t.UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) LastSync() (time.Time, bool, error) {
	const op = "storage.local.LastSync"

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get(keyLastSync); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if raw == nil {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return t, true, nil
}
