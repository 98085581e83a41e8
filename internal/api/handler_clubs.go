package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetClubs handles the GET /api/clubs request.
func (h *Handler) GetClubs(c *gin.Context) {
	clubs, err := h.store.Clubs(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clubs"})
		return
	}
	c.JSON(http.StatusOK, clubs)
}

// GetClubCameras handles the GET /api/clubs/{club_id}/cameras request.
// The mirrored snapshot is served with fresh push updates overlaid, so a
// camera that just went live shows as live even if the last REST sync
// predates the event.
func (h *Handler) GetClubCameras(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("club_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	cameras, err := h.store.Cameras(c.Request.Context(), clubID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cameras"})
		return
	}

	if h.live != nil {
		cameras = h.live.OverlaySnapshot(cameras)
	}
	c.JSON(http.StatusOK, cameras)
}

// GetClubVideos handles the GET /api/clubs/{club_id}/videos request.
func (h *Handler) GetClubVideos(c *gin.Context) {
	clubID, err := strconv.ParseInt(c.Param("club_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	videos, err := h.store.VideosForClub(c.Request.Context(), clubID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}
