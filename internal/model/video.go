package model

import "time"

// Video maps a recording slot (club, court, weekday, hour, half-hour
// section) to the opaque playable stream UID on the hosting provider.
// At most one video exists per slot tuple.
type Video struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ClubID      int64  `gorm:"uniqueIndex:idx_video_slot;not null" json:"club_id"`
	CourtNumber int    `gorm:"uniqueIndex:idx_video_slot;not null" json:"court_number"`
	Weekday     string `gorm:"uniqueIndex:idx_video_slot;size:16;not null" json:"weekday"`
	Hour        int    `gorm:"uniqueIndex:idx_video_slot;not null" json:"hour"`
	Section     int    `gorm:"uniqueIndex:idx_video_slot;not null" json:"section"`
	VideoUID    string `gorm:"size:128;not null" json:"video_uid"`
	Blocked     bool   `gorm:"not null;default:false" json:"blocked"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
