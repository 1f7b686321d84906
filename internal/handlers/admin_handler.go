package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/middleware"
	"github.com/DO1FFE/adventskalender-backend/internal/pool"
	"github.com/DO1FFE/adventskalender-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles the admin operations: pool configuration, the
// calendar switch, ledger resets and the legacy winners import.
type AdminHandler struct {
	prizeService    services.PrizeService
	calendarService services.CalendarService
	doorService     services.DoorService
	rewardService   services.RewardService
	now             func() time.Time
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	prizeService services.PrizeService,
	calendarService services.CalendarService,
	doorService services.DoorService,
	rewardService services.RewardService,
	loc *time.Location,
) *AdminHandler {
	return &AdminHandler{
		prizeService:    prizeService,
		calendarService: calendarService,
		doorService:     doorService,
		rewardService:   rewardService,
		now:             func() time.Time { return time.Now().In(loc) },
	}
}

// GetPool handles GET /admin/pool
func (h *AdminHandler) GetPool(c *gin.Context) {
	stats, err := h.prizeService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pool stats"})
		return
	}
	text, err := h.prizeService.FormatPool(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to format pool"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "text": text})
}

// ConfigurePool handles PUT /admin/pool. The request body is the raw
// line-oriented pool text.
func (h *AdminHandler) ConfigurePool(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	entries, err := h.prizeService.Configure(c.Request.Context(), string(body))
	if err != nil {
		if verr, ok := err.(*pool.ValidationError); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "lines": verr.Lines})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store pool configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// SetCalendarRequest is the body for PUT /admin/calendar
type SetCalendarRequest struct {
	Active bool `json:"active"`
}

// SetCalendar handles PUT /admin/calendar
func (h *AdminHandler) SetCalendar(c *gin.Context) {
	var req SetCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedBy := ""
	if userID, ok := middleware.UserID(c); ok {
		updatedBy = userID.Hex()
	}
	if err := h.calendarService.SetActive(c.Request.Context(), req.Active, updatedBy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update calendar state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Active})
}

// GetParticipations handles GET /admin/participations: per-door open
// counts for the current year.
func (h *AdminHandler) GetParticipations(c *gin.Context) {
	counts, err := h.doorService.ParticipationCounts(c.Request.Context(), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count participations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// ResetParticipations handles DELETE /admin/participations
func (h *AdminHandler) ResetParticipations(c *gin.Context) {
	if err := h.doorService.ResetParticipations(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset participation ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participation ledger reset"})
}

// ResetRewards handles DELETE /admin/rewards
func (h *AdminHandler) ResetRewards(c *gin.Context) {
	if err := h.rewardService.ResetRewards(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset winner ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner ledger reset"})
}

// PurgeArtifacts handles DELETE /admin/artifacts
func (h *AdminHandler) PurgeArtifacts(c *gin.Context) {
	if err := h.rewardService.PurgeArtifacts(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge artifacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artifacts purged"})
}

// ImportWinners handles POST /admin/import-winners. The request body is the
// legacy flat winners file.
func (h *AdminHandler) ImportWinners(c *gin.Context) {
	imported, err := h.rewardService.ImportWinnersFile(c.Request.Context(), c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed: " + err.Error(), "imported": imported})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
