package handler

import (
	"context"
	"net/http"
)

// StorePinger reports whether the backing store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the health-check endpoint.
type HealthHandler struct {
	store StorePinger
}

func NewHealthHandler(store StorePinger) *HealthHandler { return &HealthHandler{store: store} }

func (h *HealthHandler) Healthchecker(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database is not available")
			return
		}
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Welcome to Contacts API!"})
}
