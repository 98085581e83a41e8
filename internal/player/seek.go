// Package player is the adapter boundary between computed seek offsets and
// an actual video player. Every seek target handed to a player goes through
// SeekTarget so range clamping lives in exactly one place.
package player

import (
	"smashvision-backend/internal/timemap"
)

// SeekTarget converts a best-moment wall-clock time into a playback offset
// relative to the recording start, clamped to [0, durationSeconds]. A
// malformed moment string is reported as an error; the player never sees a
// target outside the playable range.
func SeekTarget(momentWallClock string, start timemap.Clock, durationSeconds float64) (float64, error) {
	offset, err := timemap.SecondsBetween(momentWallClock, start.String())
	if err != nil {
		return 0, err
	}

	target := float64(offset)
	if target < 0 {
		return 0, nil
	}
	if target > durationSeconds {
		return durationSeconds, nil
	}
	return target, nil
}
