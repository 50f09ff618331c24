package submit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/service/syncer"
	"jewelflow/internal/storage"
)

type Submitter interface {
	Submit(ctx context.Context, uploadRef string, orders []storage.Order) (*syncer.SubmitResult, error)
}

type Request struct {
	UploadRef string          `json:"upload_ref"`
	Orders    []storage.Order `json:"orders"`
}

type Response struct {
	Status  string `json:"status"`
	QueueID uint64 `json:"queue_id,omitempty"`
}

// SubmitOrders pushes a confirmed batch to the remote store. A failed remote
// call is not an error for the client: the batch lands in the durable queue
// and the response says "queued".
func SubmitOrders(log *slog.Logger, sub Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ingest.submit.SubmitOrders"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Orders) == 0 {
			http.Error(w, "no orders to submit", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		res, err := sub.Submit(ctx, req.UploadRef, req.Orders)
		if err != nil {
			log.Error("batch lost: submission and queueing both failed",
				slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "could not submit or queue the batch", http.StatusInternalServerError)
			return
		}

		resp := Response{Status: "submitted"}
		if !res.Submitted {
			resp = Response{Status: "queued", QueueID: res.QueueID}
		}
		render.JSON(w, r, resp)
	}
}
