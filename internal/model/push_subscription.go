package model

import "time"

// PushSubscription holds a browser push subscription for club staff who
// want to be told when a court camera goes live.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Cameras []*Camera `gorm:"many2many:subscription_camera_mapping;"`
}
