package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parking-garage-backend/internal/journal"
)

// eventResponse is the API rendering of a journal row.
type eventResponse struct {
	MachineID  string    `json:"machine_id"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	Level      int       `json:"level"`
	Slots      []int     `json:"slots"`
	ObservedAt time.Time `json:"observed_at"`
}

// GetEvents handles GET /api/events, returning recent journal entries
// newest first. Supports ?machine_id= and ?limit= (default 50, capped at
// 500).
func (h *Handler) GetEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > 500 {
		limit = 500
	}

	events, err := h.journal.RecentEvents(c.Request.Context(), c.Query("machine_id"), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	response := make([]eventResponse, len(events))
	for i, ev := range events {
		response[i] = eventResponse{
			MachineID:  ev.MachineID,
			Kind:       ev.Kind,
			Action:     ev.Action,
			Level:      ev.LevelIndex,
			Slots:      journal.SplitSlots(ev.SlotList),
			ObservedAt: ev.ObservedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
