package model

import "time"

// Club represents a padel club mirrored from the cloud API.
type Club struct {
	ID        int64     `gorm:"primaryKey" json:"id"` // Upstream ID
	Name      string    `gorm:"size:256;not null" json:"name"`
	City      string    `gorm:"size:128" json:"city"`
	Timezone  string    `gorm:"size:64" json:"timezone"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Cameras []Camera `gorm:"foreignKey:ClubID" json:"-"`
}
