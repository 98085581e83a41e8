package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"smashvision-backend/internal/player"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/timemap"
)

func intQuery(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing '" + key + "' parameter"})
		return 0, false
	}
	return v, true
}

func int64Query(c *gin.Context, key string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing '" + key + "' parameter"})
		return 0, false
	}
	return v, true
}

func floatQuery(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing '" + key + "' parameter"})
		return 0, false
	}
	return v, true
}

// slotQuery binds the recording-slot tuple common to the lookup and
// best-moments endpoints.
func slotQuery(c *gin.Context) (clubID int64, weekday string, hour, court, section int, ok bool) {
	weekday = c.Query("weekday")
	if weekday == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'weekday' parameter"})
		return 0, "", 0, 0, 0, false
	}
	if clubID, ok = int64Query(c, "club_id"); !ok {
		return 0, "", 0, 0, 0, false
	}
	if hour, ok = intQuery(c, "hour"); !ok {
		return 0, "", 0, 0, 0, false
	}
	if court, ok = intQuery(c, "court"); !ok {
		return 0, "", 0, 0, 0, false
	}
	if section, ok = intQuery(c, "section"); !ok {
		return 0, "", 0, 0, 0, false
	}
	return clubID, weekday, hour, court, section, true
}

// LookupVideo handles the GET /api/videos/lookup request: it resolves a
// recording slot to its playable video.
func (h *Handler) LookupVideo(c *gin.Context) {
	clubID, weekday, hour, court, section, ok := slotQuery(c)
	if !ok {
		return
	}

	video, err := h.store.VideoForSlot(c.Request.Context(), clubID, court, weekday, hour, section)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No video recorded for this slot"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up video"})
		return
	}
	c.JSON(http.StatusOK, video)
}

// GetRecordingClock handles the GET /api/videos/{video}/clock request. It
// reconstructs the wall-clock start of the recording from the slot and the
// reported duration, plus the synchronized clock reading at an elapsed
// playback position.
func (h *Handler) GetRecordingClock(c *gin.Context) {
	hour, ok := intQuery(c, "hour")
	if !ok {
		return
	}
	section, ok := intQuery(c, "section")
	if !ok {
		return
	}

	var duration *float64
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'duration' parameter"})
			return
		}
		duration = &d
	}

	elapsed := 0.0
	if raw := c.Query("elapsed"); raw != "" {
		e, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'elapsed' parameter"})
			return
		}
		elapsed = e
	}

	start := timemap.RecordingStart(hour, section, duration)
	c.JSON(http.StatusOK, gin.H{
		"start":      start.String(),
		"wall_clock": timemap.WallClockAtElapsed(start, elapsed, hour),
	})
}

// GetSeekOffset handles the GET /api/videos/{video}/seek request: it maps a
// wall-clock moment to a playback offset clamped to the video bounds.
func (h *Handler) GetSeekOffset(c *gin.Context) {
	moment := c.Query("moment")
	if moment == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'moment' parameter"})
		return
	}
	hour, ok := intQuery(c, "hour")
	if !ok {
		return
	}
	section, ok := intQuery(c, "section")
	if !ok {
		return
	}
	duration, ok := floatQuery(c, "duration")
	if !ok {
		return
	}

	start := timemap.RecordingStart(hour, section, &duration)
	offset, err := player.SeekTarget(moment, start, duration)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offset": offset})
}

// GetBestMoments handles the GET /api/videos/{video}/best-moments request,
// proxied to the cloud analysis endpoint.
func (h *Handler) GetBestMoments(c *gin.Context) {
	clubID, weekday, hour, court, section, ok := slotQuery(c)
	if !ok {
		return
	}

	moments, err := h.remote.BestMoments(c.Request.Context(), remote.SlotQuery{
		ClubID:      clubID,
		Weekday:     weekday,
		Hour:        hour,
		CourtNumber: court,
		Section:     section,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch best moments"})
		return
	}
	c.JSON(http.StatusOK, moments)
}

// BlockVideo handles the POST /api/videos/{video}/block request. Blocking
// happens on the cloud; the local mirror picks the flag up on the next sync.
func (h *Handler) BlockVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}
	if err := h.remote.BlockVideo(c.Request.Context(), videoID); err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to block video"})
		return
	}
	c.Status(http.StatusNoContent)
}

// UnblockVideo handles the DELETE /api/videos/{video}/block request.
func (h *Handler) UnblockVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}
	if err := h.remote.UnblockVideo(c.Request.Context(), videoID); err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to unblock video"})
		return
	}
	c.Status(http.StatusNoContent)
}
