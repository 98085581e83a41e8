package model

import "time"

// Camera live-status values as reported by the cloud. The backend also
// sends free-text states; anything other than Live is treated as not
// streaming.
const (
	StatusLive    = "Live"
	StatusOffline = "Offline"
)

// Camera represents one physical court camera and its last known
// streaming state. The REST snapshot is the authoritative base; the
// livesync overlay may refine status, stream URL and notes with fresher
// push-delivered values.
type Camera struct {
	ID          int     `gorm:"primaryKey" json:"id"` // Upstream ID
	ClubID      int64   `gorm:"index;not null" json:"club_id"`
	CourtNumber int     `gorm:"not null" json:"court_number"`
	Status      string  `gorm:"size:64;not null" json:"status"`
	StreamURL   *string `gorm:"size:512" json:"stream_url"`
	Notes       *string `gorm:"size:512" json:"notes"`
	IP          *string `gorm:"size:64" json:"ip"`
	Endpoint    *string `gorm:"size:256" json:"endpoint"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Club Club `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsLive reports whether the camera is currently streaming.
func (c Camera) IsLive() bool {
	return c.Status == StatusLive
}
