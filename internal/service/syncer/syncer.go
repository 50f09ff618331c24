// Package syncer owns the offline-first submission path: submit-or-queue,
// the FIFO queue drain, cache refresh and sanitized cache hydration.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jewelflow/internal/service/sanitize"
	"jewelflow/internal/storage"
)

// Remote is the authoritative data store collaborator.
type Remote interface {
	GetOrders(ctx context.Context) ([]storage.Order, error)
	GetMasterDesigns(ctx context.Context) ([]storage.MasterDesign, error)
	UploadParsedOrders(ctx context.Context, orders []storage.Order) error
}

// Local is the durable offline store: caches, queue, last-sync scalar.
type Local interface {
	ReplaceOrders(orders []storage.Order) error
	ReplaceMasterDesigns(designs []storage.MasterDesign) error
	CachedOrders() ([]json.RawMessage, error)
	CachedMasterDesigns() ([]json.RawMessage, error)
	Enqueue(item storage.QueueItem) (uint64, error)
	Pending() ([]storage.QueueItem, error)
	Delete(id uint64) error
	QueueLen() (int, error)
	SetLastSync(t time.Time) error
	LastSync() (time.Time, bool, error)
}

type Service struct {
	log    *slog.Logger
	remote Remote
	local  Local
}

func NewService(log *slog.Logger, remote Remote, local Local) *Service {
	return &Service{log: log, remote: remote, local: local}
}

type SubmitResult struct {
	Submitted bool   `json:"submitted"`
	QueueID   uint64 `json:"queue_id,omitempty"`
}

// Submit attempts one remote upload. On failure the batch is durably queued
// and the submission error is swallowed: the caller sees "queued", not a
// failure, because the batch is retained, not lost.
func (s *Service) Submit(ctx context.Context, uploadRef string, orders []storage.Order) (*SubmitResult, error) {
	const op = "service.syncer.Submit"

	if err := s.remote.UploadParsedOrders(ctx, orders); err == nil {
		return &SubmitResult{Submitted: true}, nil
	} else {
		s.log.Warn("submission failed, queueing batch",
			slog.String("op", op),
			slog.String("upload_ref", uploadRef),
			slog.Int("orders", len(orders)),
			slog.String("error", err.Error()),
		)
	}

	id, err := s.local.Enqueue(storage.QueueItem{
		UploadRef: uploadRef,
		Orders:    orders,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SubmitResult{Submitted: false, QueueID: id}, nil
}

type SyncReport struct {
	Drained   int        `json:"drained"`
	Remaining int        `json:"remaining"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
}

// Sync drains the queue in FIFO order. Replay is per-item: a batch leaves the
// queue only when its own submission succeeds, and one failing batch never
// blocks the ones behind it. The last-sync timestamp moves only after a fully
// clean sweep.
func (s *Service) Sync(ctx context.Context) (*SyncReport, error) {
	const op = "service.syncer.Sync"

	items, err := s.local.Pending()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &SyncReport{}
	clean := true
	for _, item := range items {
		if err := s.remote.UploadParsedOrders(ctx, item.Orders); err != nil {
			s.log.Warn("queued batch replay failed",
				slog.String("op", op),
				slog.Uint64("queue_id", item.ID),
				slog.String("error", err.Error()),
			)
			clean = false
			report.Remaining++
			continue
		}
		if err := s.local.Delete(item.ID); err != nil {
			return report, fmt.Errorf("%s: dequeue %d: %w", op, item.ID, err)
		}
		report.Drained++
	}

	if err := s.RefreshCaches(ctx); err != nil {
		s.log.Warn("cache refresh failed", slog.String("op", op), slog.String("error", err.Error()))
		clean = false
	}

	if clean {
		now := time.Now()
		if err := s.local.SetLastSync(now); err != nil {
			return report, fmt.Errorf("%s: %w", op, err)
		}
		report.LastSync = &now
	}
	return report, nil
}

// RefreshCaches replaces both local snapshots from the remote store. The two
// collections are independent, so they are fetched concurrently.
func (s *Service) RefreshCaches(ctx context.Context) error {
	const op = "service.syncer.RefreshCaches"

	var (
		orders  []storage.Order
		designs []storage.MasterDesign
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.remote.GetOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		designs, err = s.remote.GetMasterDesigns(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.local.ReplaceOrders(orders); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.local.ReplaceMasterDesigns(designs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Snapshot is the sanitized content of the local caches, served while the
// authoritative store is unreachable. Skipped counts let the client offer a
// clear-cache remediation instead of crashing on corrupt state.
type Snapshot struct {
	Orders         []storage.Order        `json:"orders"`
	Designs        []storage.MasterDesign `json:"master_designs"`
	SkippedOrders  int                    `json:"skipped_orders"`
	SkippedDesigns int                    `json:"skipped_designs"`
}

func (s *Service) Hydrate() (*Snapshot, error) {
	const op = "service.syncer.Hydrate"

	rawOrders, err := s.local.CachedOrders()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rawDesigns, err := s.local.CachedMasterDesigns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snap := &Snapshot{}
	snap.Orders, snap.SkippedOrders = sanitize.Orders(rawOrders)
	snap.Designs, snap.SkippedDesigns = sanitize.Designs(rawDesigns)

	if snap.SkippedOrders > 0 || snap.SkippedDesigns > 0 {
		s.log.Warn("cache hydration skipped malformed records",
			slog.String("op", op),
			slog.Int("orders", snap.SkippedOrders),
			slog.Int("designs", snap.SkippedDesigns),
		)
	}
	return snap, nil
}

// Orders returns the authoritative order set, falling back to the sanitized
// cache (stale == true) when the remote store errors.
func (s *Service) Orders(ctx context.Context) ([]storage.Order, bool, int, error) {
	const op = "service.syncer.Orders"

	orders, err := s.remote.GetOrders(ctx)
	if err == nil {
		return orders, false, 0, nil
	}
	s.log.Warn("remote orders unavailable, serving cache", slog.String("op", op), slog.String("error", err.Error()))

	raw, cerr := s.local.CachedOrders()
	if cerr != nil {
		return nil, false, 0, fmt.Errorf("%s: %w", op, cerr)
	}
	valid, skipped := sanitize.Orders(raw)
	return valid, true, skipped, nil
}

// MasterDesigns mirrors Orders for the registry snapshot.
func (s *Service) MasterDesigns(ctx context.Context) ([]storage.MasterDesign, bool, int, error) {
	const op = "service.syncer.MasterDesigns"

	designs, err := s.remote.GetMasterDesigns(ctx)
	if err == nil {
		return designs, false, 0, nil
	}
	s.log.Warn("remote master designs unavailable, serving cache", slog.String("op", op), slog.String("error", err.Error()))

	raw, cerr := s.local.CachedMasterDesigns()
	if cerr != nil {
		return nil, false, 0, fmt.Errorf("%s: %w", op, cerr)
	}
	valid, skipped := sanitize.Designs(raw)
	return valid, true, skipped, nil
}

type Status struct {
	QueueLen int        `json:"queue_len"`
	LastSync *time.Time `json:"last_sync,omitempty"`
}

func (s *Service) Status() (*Status, error) {
	const op = "service.syncer.Status"

	n, err := s.local.QueueLen()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := &Status{QueueLen: n}
	if t, ok, err := s.local.LastSync(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if ok {
		st.LastSync = &t
	}
	return st, nil
}
