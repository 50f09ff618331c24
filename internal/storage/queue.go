package storage

import "time"

// QueueItem is one not-yet-submitted ingestion batch. IDs are assigned by the
// local store and are monotonic; items are never mutated in place, only
// inserted and removed.
type QueueItem struct {
	ID        uint64    `json:"id"`
	UploadRef string    `json:"upload_ref"`
	Orders    []Order   `json:"orders"`
	Timestamp time.Time `json:"timestamp"`
}
