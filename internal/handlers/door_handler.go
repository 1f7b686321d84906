package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/middleware"
	"github.com/DO1FFE/adventskalender-backend/internal/models"
	"github.com/DO1FFE/adventskalender-backend/internal/odds"
	"github.com/DO1FFE/adventskalender-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DoorHandler handles door-open and calendar-view HTTP requests
type DoorHandler struct {
	doorService services.DoorService
	// now supplies the request clock in the calendar's timezone.
	now func() time.Time
}

// NewDoorHandler creates a new DoorHandler
func NewDoorHandler(doorService services.DoorService, loc *time.Location) *DoorHandler {
	return &DoorHandler{
		doorService: doorService,
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

// OpenDoor handles POST /doors/:day/open
func (h *DoorHandler) OpenDoor(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 || day > odds.FinalDay {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	result, err := h.doorService.OpenDoor(c.Request.Context(), userID, day, h.now())
	if err != nil {
		// Win-path persistence failure. Never rendered as a loss and the
		// body must not carry any win content.
		c.JSON(http.StatusInternalServerError, gin.H{
			"outcome": models.OutcomeInternalError,
			"error":   "The reward could not be recorded. Please contact the team.",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCalendar handles GET /calendar
func (h *DoorHandler) GetCalendar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	doors, err := h.doorService.Calendar(c.Request.Context(), userID, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load calendar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doors": doors})
}
