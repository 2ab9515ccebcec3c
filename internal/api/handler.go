package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"parking-garage-backend/internal/garage"
	"parking-garage-backend/internal/journal"
	"parking-garage-backend/internal/notification"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	garage  *garage.Garage
	journal journal.Store
	webpush *webpush.Options
	pool    *notification.WorkerPool
}

// NewHandler creates a new API handler. The worker pool may be nil when
// push is not configured; freed-level dispatches are then skipped.
func NewHandler(g *garage.Garage, j journal.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool) *Handler {
	return &Handler{
		garage:  g,
		journal: j,
		webpush: webpushOptions,
		pool:    pool,
	}
}
