package local

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"jewelflow/internal/storage"
)

// Enqueue appends a batch to the sync queue and returns its assigned id.
// Ids come from the bucket sequence, so they are monotonic and never reused.
func (s *Store) Enqueue(item storage.QueueItem) (uint64, error) {
	const op = "storage.local.Enqueue"

	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		item.ID = seq

		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := b.Put(itob(seq), data); err != nil {
			return err
		}
		id = seq
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Pending returns queued batches in FIFO (insertion) order.
func (s *Store) Pending() ([]storage.QueueItem, error) {
	const op = "storage.local.Pending"

	var items []storage.QueueItem
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketQueue).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item storage.QueueItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("queue item %d is unreadable: %w", btoi(k), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Delete removes exactly one queued batch. Deleting an id that is not queued
// returns storage.ErrNotFound.
func (s *Store) Delete(id uint64) error {
	const op = "storage.local.Delete"

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		key := itob(id)
		if b.Get(key) == nil {
			return storage.ErrNotFound
		}
		return b.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) QueueLen() (int, error) {
	const op = "storage.local.QueueLen"

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketQueue).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
