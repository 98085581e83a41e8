package store

// ClubSnapshot is a club record as returned by the cloud API.
type ClubSnapshot struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Timezone string `json:"timezone"`
}

// CameraSnapshot is a camera record as returned by the cloud API. The
// court number is parsed from the display name when the courtNumber field
// is absent or zero.
type CameraSnapshot struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CourtNumber int     `json:"courtNumber"`
	Status      string  `json:"status"`
	StreamURL   *string `json:"url"`
	Notes       *string `json:"notes"`
	IP          *string `json:"ip"`
	Endpoint    *string `json:"endpoint"`
}

// VideoSnapshot maps one recording slot to its playable stream UID.
type VideoSnapshot struct {
	CourtNumber int    `json:"courtNumber"`
	Weekday     string `json:"weekday"`
	Hour        int    `json:"hour"`
	Section     int    `json:"section"`
	VideoUID    string `json:"videoUID"`
	Blocked     bool   `json:"blocked"`
}
