package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/service/syncer"
)

type Syncer interface {
	Sync(ctx context.Context) (*syncer.SyncReport, error)
	Status() (*syncer.Status, error)
}

// RunSync triggers one queue sweep, the same code path the background ticker
// takes when connectivity returns.
func RunSync(log *slog.Logger, s Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sync.run.RunSync"

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		report, err := s.Sync(ctx)
		if err != nil {
			log.Error("sync sweep failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "sync sweep failed", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, report)
	}
}

func GetStatus(log *slog.Logger, s Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sync.run.GetStatus"

		status, err := s.Status()
		if err != nil {
			log.Error("cannot read sync status", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "cannot read sync status", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, status)
	}
}
