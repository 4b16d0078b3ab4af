package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/services"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// EventHandler handles HTTP requests related to the activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent returns the caller's most recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultEventLimit
	}
	limit = min(limit, maxEventLimit)

	events, err := h.service.GetRecentEvents(r.Context(), id.String(), limit)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve events")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}
