// Package timemap converts between recording-slot identifiers, wall-clock
// times and offsets inside a recorded court video. All functions are pure.
package timemap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	hourSeconds   = 3600
	minuteSeconds = 60
	// A section covers half a clock hour. Section 0 ends at hh:30:00,
	// section 1 at (hh+1):00:00.
	sectionOffsetMinutes = 30
)

// Clock is a wall-clock instant as hour/minute/second components.
// Components may be negative when a recording's duration pushes its start
// before midnight as measured from the slot boundary; no wraparound is
// applied.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// String formats the clock as HH:MM:SS with each field zero-padded to two
// digits. The hour field is not wrapped modulo 24.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// RecordingStart computes the wall-clock time a recording actually started.
// The slot's nominal end boundary (hh:30:00 for section 0, (hh+1):00:00 for
// section 1) minus the video's real duration gives the start; recordings may
// be shorter than the 30-minute slot. A nil duration means the player has
// not reported metadata yet, in which case the recording is assumed to fill
// the whole slot and the boundary-minus-30-minutes start is returned.
func RecordingStart(hour, section int, durationSeconds *float64) Clock {
	baseHour := hour
	baseMinute := sectionOffsetMinutes
	if section != 0 {
		baseHour = hour + 1
		baseMinute = 0
	}

	if durationSeconds == nil {
		return Clock{Hour: baseHour, Minute: baseMinute}
	}

	total := float64(baseHour*hourSeconds+baseMinute*minuteSeconds) - *durationSeconds

	// Floor division for hour/minute and round-to-nearest for the second,
	// so fractional durations do not accumulate drift in the second field.
	return Clock{
		Hour:   int(math.Floor(total / hourSeconds)),
		Minute: int(math.Floor(math.Mod(total, hourSeconds) / minuteSeconds)),
		Second: int(math.Round(math.Mod(total, minuteSeconds))),
	}
}

// WallClockAtElapsed returns the synchronized wall-clock string shown next
// to the player at the given playback position. Sub-second player positions
// are truncated toward zero.
//
// The hour base is slotHour, the originally selected slot hour, not
// start.Hour. When the computed recording start falls in an earlier hour
// than the slot's nominal hour the displayed clock and the seek arithmetic
// disagree by up to an hour; that behavior is intentional and pinned by
// tests, pending product clarification.
func WallClockAtElapsed(start Clock, elapsedSeconds float64, slotHour int) string {
	elapsed := int(elapsedSeconds)
	total := slotHour*hourSeconds + start.Minute*minuteSeconds + start.Second + elapsed

	return Clock{
		Hour:   total / hourSeconds,
		Minute: (total % hourSeconds) / minuteSeconds,
		Second: total % minuteSeconds,
	}.String()
}

// SecondsBetween parses two H:MM:SS or HH:MM:SS strings and returns a-b in
// seconds, signed. It performs no range clamping; callers applying the
// result as a player seek target must clamp to [0, duration] first (see
// the player package). Malformed input is a caller bug and yields an error.
func SecondsBetween(a, b string) (int, error) {
	as, err := parseClockSeconds(a)
	if err != nil {
		return 0, err
	}
	bs, err := parseClockSeconds(b)
	if err != nil {
		return 0, err
	}
	return as - bs, nil
}

func parseClockSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock time %q: want H:MM:SS", s)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("malformed clock time %q: %w", s, err)
		}
		fields[i] = n
	}
	return fields[0]*hourSeconds + fields[1]*minuteSeconds + fields[2], nil
}
