package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetLiveStatus handles the GET /api/live/status request. UIs use the
// connected flag to surface a stale live view and the reload trigger to
// detect new push events since their last poll.
func (h *Handler) GetLiveStatus(c *gin.Context) {
	if h.live == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "reload_trigger": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":      h.live.Connected(),
		"reload_trigger": h.live.ReloadTrigger(),
	})
}

// StartLive handles the POST /api/cameras/{camera_id}/live/start request.
func (h *Handler) StartLive(c *gin.Context) {
	h.proxyLive(c, h.remote.StartLive)
}

// StopLive handles the POST /api/cameras/{camera_id}/live/stop request.
func (h *Handler) StopLive(c *gin.Context) {
	h.proxyLive(c, h.remote.StopLive)
}

// proxyLive forwards a start/stop request to the cloud. The request body,
// if any, is passed through untouched so clients can supply provider
// options the companion service does not need to understand.
func (h *Handler) proxyLive(c *gin.Context, forward func(ctx context.Context, cameraID int, body map[string]any) error) {
	cameraID, err := strconv.Atoi(c.Param("camera_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid camera ID"})
		return
	}

	var body map[string]any
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := forward(c.Request.Context(), cameraID, body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to reach the streaming provider"})
		return
	}
	c.Status(http.StatusOK)
}
