package model

import "time"

// Clip is a user-created excerpt of a recorded video, registered with the
// cloud and mirrored locally for listing.
type Clip struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoUID        string    `gorm:"size:128;index;not null" json:"video_uid"`
	StartSeconds    float64   `gorm:"not null" json:"start_seconds"`
	DurationSeconds float64   `gorm:"not null" json:"duration_seconds"`
	Label           string    `gorm:"size:256" json:"label"`
	CreatedAt       time.Time `json:"created_at"`
}
