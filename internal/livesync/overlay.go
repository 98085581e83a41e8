package livesync

import (
	"time"

	"smashvision-backend/internal/model"
)

// Overlay merges push-delivered live updates into a REST-fetched camera
// snapshot. A camera whose id has an update younger than the staleness
// window gets its status, stream URL and notes replaced; every other camera
// passes through unchanged. Updates for ids absent from the snapshot are
// ignored, never appended: the REST snapshot alone decides which cameras
// exist. The input slice is not mutated; a new slice is always returned so
// consumers can rely on reference comparison for change detection.
//
// The staleness window exists because there is no ordering guarantee
// between a REST fetch and an in-flight push event; an old event must not
// clobber a newer snapshot.
func Overlay(cameras []model.Camera, updates map[int]LiveUpdate, now time.Time, staleness time.Duration) []model.Camera {
	merged := make([]model.Camera, len(cameras))
	for i, camera := range cameras {
		update, ok := updates[camera.ID]
		if ok && now.Sub(update.Timestamp) < staleness {
			camera.Status = update.Status
			camera.StreamURL = update.StreamURL
			camera.Notes = update.Notes
		}
		merged[i] = camera
	}
	return merged
}

// OverlaySnapshot applies the client's current overlay map to a snapshot
// using its injected clock and configured staleness window.
func (c *Client) OverlaySnapshot(cameras []model.Camera) []model.Camera {
	return Overlay(cameras, c.LiveUpdates(), c.clock(), c.staleness)
}
