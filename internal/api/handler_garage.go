package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parking-garage-backend/internal/garage"
)

type parkRequest struct {
	ID   string `json:"id" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

// placementResponse is the API rendering of a garage placement.
type placementResponse struct {
	MachineID string `json:"machine_id"`
	Kind      string `json:"kind"`
	Level     int    `json:"level"`
	Slots     []int  `json:"slots"`
}

func toPlacementResponse(p garage.Placement) placementResponse {
	return placementResponse{
		MachineID: p.Machine.ID,
		Kind:      string(p.Machine.Kind),
		Level:     p.Level,
		Slots:     p.Slots,
	}
}

// failureStatus maps engine failures onto HTTP status codes and stable
// machine-readable codes for the response body.
func failureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, garage.ErrAlreadyParked):
		return http.StatusConflict, "already_parked"
	case errors.Is(err, garage.ErrNoSpace):
		return http.StatusConflict, "no_space"
	case errors.Is(err, garage.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, garage.ErrInconsistent):
		return http.StatusInternalServerError, "internal_inconsistency"
	}
	return http.StatusInternalServerError, "internal"
}

// ParkMachine handles POST /api/machines.
func (h *Handler) ParkMachine(c *gin.Context) {
	var req parkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := garage.ParseKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placement, err := h.garage.Store(garage.Machine{ID: req.ID, Kind: kind})
	if err != nil {
		status, code := failureStatus(err)
		c.JSON(status, gin.H{"error": err.Error(), "code": code})
		return
	}

	// The journal is history only; a write failure must not undo a
	// placement that already committed.
	if err := h.journal.RecordPark(c.Request.Context(), placement, time.Now().UTC()); err != nil {
		log.Printf("journal write failed: %v", err)
	}

	c.JSON(http.StatusCreated, toPlacementResponse(placement))
}

// UnparkMachine handles DELETE /api/machines/:machine_id.
func (h *Handler) UnparkMachine(c *gin.Context) {
	machineID := c.Param("machine_id")

	placement, err := h.garage.Unpark(machineID)
	if err != nil {
		status, code := failureStatus(err)
		c.JSON(status, gin.H{"error": err.Error(), "code": code})
		return
	}

	if err := h.journal.RecordUnpark(c.Request.Context(), placement, time.Now().UTC()); err != nil {
		log.Printf("journal write failed: %v", err)
	}

	if h.pool != nil {
		h.pool.Dispatch(placement.Level)
	}

	c.JSON(http.StatusOK, gin.H{"machine_id": machineID, "level": placement.Level})
}

// LocateMachine handles GET /api/machines/:machine_id.
func (h *Handler) LocateMachine(c *gin.Context) {
	placement, err := h.garage.Locate(c.Param("machine_id"))
	if err != nil {
		status, code := failureStatus(err)
		c.JSON(status, gin.H{"error": err.Error(), "code": code})
		return
	}

	c.JSON(http.StatusOK, toPlacementResponse(placement))
}

// levelAvailabilityResponse is one level's free-slot count.
type levelAvailabilityResponse struct {
	Level     int `json:"level"`
	FreeSlots int `json:"free_slots"`
}

// GetAvailability handles GET /api/availability.
func (h *Handler) GetAvailability(c *gin.Context) {
	avail := h.garage.Availability()
	response := make([]levelAvailabilityResponse, len(avail))
	for i, a := range avail {
		response[i] = levelAvailabilityResponse{Level: a.Level, FreeSlots: a.FreeSlots}
	}
	c.JSON(http.StatusOK, response)
}

// GetFull handles GET /api/full.
func (h *Handler) GetFull(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"full": h.garage.IsFull()})
}
