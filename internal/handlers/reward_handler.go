package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/DO1FFE/adventskalender-backend/internal/middleware"
	"github.com/DO1FFE/adventskalender-backend/internal/odds"
	"github.com/DO1FFE/adventskalender-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RewardHandler handles reward listing and proof-token downloads
type RewardHandler struct {
	rewardService services.RewardService
	now           func() time.Time
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService services.RewardService, loc *time.Location) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		now:           func() time.Time { return time.Now().In(loc) },
	}
}

// GetMyRewards handles GET /rewards
func (h *RewardHandler) GetMyRewards(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	rewards, err := h.rewardService.GetUserRewards(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// DownloadArtifact handles GET /rewards/:day/qr
func (h *RewardHandler) DownloadArtifact(c *gin.Context) {
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

	year := h.now().Year()
	if q := c.Query("year"); q != "" {
		if y, err := strconv.Atoi(q); err == nil {
			year = y
		}
	}

	path, err := h.rewardService.ArtifactPath(c.Request.Context(), userID, day, year)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reward for this day"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
