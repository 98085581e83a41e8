package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smashvision-backend/internal/model"
	"smashvision-backend/internal/remote"
)

type postClipRequest struct {
	VideoUID  string  `json:"video_uid" binding:"required"`
	Tag       string  `json:"tag"`
	ClubID    int64   `json:"club_id" binding:"required"`
	UserID    string  `json:"user_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time" binding:"required"`
}

// PostClip handles the POST /api/clips request. The clip is registered with
// the cloud, which cuts and hosts it, and recorded locally for browsing.
func (h *Handler) PostClip(c *gin.Context) {
	var req postClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndTime <= req.StartTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	err := h.remote.RegisterClip(c.Request.Context(), remote.ClipRegistration{
		VideoUID:  req.VideoUID,
		Tag:       req.Tag,
		ClubID:    req.ClubID,
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to register clip"})
		return
	}

	clip := model.Clip{
		VideoUID:        req.VideoUID,
		StartSeconds:    req.StartTime,
		DurationSeconds: req.EndTime - req.StartTime,
		Label:           req.Tag,
	}
	if err := h.store.SaveClip(c.Request.Context(), &clip); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save clip"})
		return
	}

	c.JSON(http.StatusCreated, clip)
}
