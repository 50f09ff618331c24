package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"jewelflow/internal/storage"
)

type OrderSource interface {
	Orders(ctx context.Context) ([]storage.Order, bool, int, error)
}

type Response struct {
	Orders  []storage.Order `json:"orders"`
	Stale   bool            `json:"stale"`
	Skipped int             `json:"skipped,omitempty"`
}

// GetOrders serves the authoritative order set; when the remote store is down
// it degrades to the sanitized local cache with stale=true.
func GetOrders(log *slog.Logger, src OrderSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.GetOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orders, stale, skipped, err := src.Orders(ctx)
		if err != nil {
			log.Error("orders unavailable", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "orders unavailable", http.StatusServiceUnavailable)
			return
		}

		if orders == nil {
			orders = []storage.Order{}
		}
		render.JSON(w, r, Response{Orders: orders, Stale: stale, Skipped: skipped})
	}
}
