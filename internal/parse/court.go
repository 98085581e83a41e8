package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	courtRe    = regexp.MustCompile(`(?i)\b(?:court|pista|cancha)\s*#?\s*(\d+)`)
	trailingRe = regexp.MustCompile(`(\d+)\s*$`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// ParsedCamera holds the structured data parsed from a camera's display name.
type ParsedCamera struct {
	Label       string
	CourtNumber int
}

// ParseCameraName extracts the court number from a raw camera display name.
// Clubs name cameras inconsistently ("Court 3", "Pista 3 - Centro",
// "Cancha #2", or a bare trailing digit); courtField is the court number the
// upstream API reports alongside the name and is used when the name itself
// yields nothing.
func ParseCameraName(raw string, courtField int) (ParsedCamera, error) {
	s := strings.TrimSpace(raw)
	s = spaceRe.ReplaceAllString(s, " ")

	// 1) Explicit court keyword anywhere in the name wins.
	if m := courtRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return ParsedCamera{Label: s, CourtNumber: n}, nil
		}
	}

	// 2) Otherwise a bare trailing number ("Center Cam 4").
	if m := trailingRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return ParsedCamera{Label: s, CourtNumber: n}, nil
		}
	}

	// 3) Fall back to the court field reported by the API.
	if courtField > 0 {
		return ParsedCamera{Label: s, CourtNumber: courtField}, nil
	}

	return ParsedCamera{}, fmt.Errorf("unable to parse court number from name: %q", raw)
}
