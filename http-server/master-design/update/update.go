package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"jewelflow/internal/storage"
)

type ActiveFlagSetter interface {
	SetMasterDesignActive(ctx context.Context, designCode string, active bool) error
}

type Request struct {
	IsActive bool `json:"is_active"`
}

type Response struct {
	Status string `json:"status"`
}

// SetActiveFlag flips one registry entry between active and inactive. An
// inactive entry behaves as "no mapping" for new ingestion. Admin-only.
func SetActiveFlag(log *slog.Logger, setter ActiveFlagSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-design.update.SetActiveFlag"

		designCode := chi.URLParam(r, "code")
		if designCode == "" {
			http.Error(w, "design code is required", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := setter.SetMasterDesignActive(ctx, designCode, req.IsActive); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "design not found", http.StatusNotFound)
				return
			}
			log.Error("cannot update active flag", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "cannot update active flag", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Status: "updated"})
	}
}
