package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smashvision-backend/internal/model"
	"smashvision-backend/internal/parse"
)

// Store defines the interface for all database operations.
type Store interface {
	UpsertClub(ctx context.Context, club ClubSnapshot) error
	ApplyCameraSnapshot(ctx context.Context, clubID int64, items []CameraSnapshot) ([]int, error)
	ReplaceVideos(ctx context.Context, clubID int64, items []VideoSnapshot) error
	Clubs(ctx context.Context) ([]model.Club, error)
	Cameras(ctx context.Context, clubID int64) ([]model.Camera, error)
	VideosForClub(ctx context.Context, clubID int64) ([]model.Video, error)
	VideoForSlot(ctx context.Context, clubID int64, courtNumber int, weekday string, hour, section int) (model.Video, error)
	SaveClip(ctx context.Context, clip *model.Clip) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertClub creates or refreshes one club's metadata.
func (s *gormStore) UpsertClub(ctx context.Context, club ClubSnapshot) error {
	row := model.Club{
		ID:       club.ID,
		Name:     club.Name,
		City:     club.City,
		Timezone: club.Timezone,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "city", "timezone", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert club %d failed: %w", club.ID, err)
	}
	return nil
}

// ApplyCameraSnapshot makes the stored camera set for one club match the
// REST snapshot and returns the ids of cameras that transitioned into the
// Live state, for notification dispatch. The snapshot is authoritative:
// cameras absent from it are removed.
func (s *gormStore) ApplyCameraSnapshot(ctx context.Context, clubID int64, items []CameraSnapshot) ([]int, error) {
	existing, err := s.fetchClubCameras(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cameras for club %d: %w", clubID, err)
	}

	var wentLive []int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			parsed, err := parse.ParseCameraName(item.Name, item.CourtNumber)
			if err != nil {
				log.Printf("Error parsing camera name for camera %d (%s): %v", item.ID, item.Name, err)
				continue
			}

			row := model.Camera{
				ID:          item.ID,
				ClubID:      clubID,
				CourtNumber: parsed.CourtNumber,
				Status:      item.Status,
				StreamURL:   item.StreamURL,
				Notes:       item.Notes,
				IP:          item.IP,
				Endpoint:    item.Endpoint,
			}

			old, known := existing[item.ID]
			if known && !old.IsLive() && row.IsLive() {
				wentLive = append(wentLive, item.ID)
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"club_id", "court_number", "status", "stream_url", "notes", "ip", "endpoint", "updated_at",
				}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert camera %d: %w", item.ID, err)
			}

			delete(existing, item.ID)
		}

		// Whatever is left in the map no longer exists upstream.
		for id := range existing {
			if err := tx.Delete(&model.Camera{}, id).Error; err != nil {
				return fmt.Errorf("failed to delete camera %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wentLive, nil
}

// ReplaceVideos upserts the slot-to-video mapping for one club.
func (s *gormStore) ReplaceVideos(ctx context.Context, clubID int64, items []VideoSnapshot) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.Video, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Video{
			ClubID:      clubID,
			CourtNumber: item.CourtNumber,
			Weekday:     item.Weekday,
			Hour:        item.Hour,
			Section:     item.Section,
			VideoUID:    item.VideoUID,
			Blocked:     item.Blocked,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "club_id"}, {Name: "court_number"}, {Name: "weekday"},
				{Name: "hour"}, {Name: "section"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"video_uid", "blocked", "updated_at"}),
		}).Create(&rows).Error
	})
}

// Clubs lists all mirrored clubs.
func (s *gormStore) Clubs(ctx context.Context) ([]model.Club, error) {
	var clubs []model.Club
	if err := s.db.WithContext(ctx).Order("id").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

// Cameras lists one club's cameras ordered by court.
func (s *gormStore) Cameras(ctx context.Context, clubID int64) ([]model.Camera, error) {
	var cameras []model.Camera
	if err := s.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("court_number, id").
		Find(&cameras).Error; err != nil {
		return nil, err
	}
	return cameras, nil
}

// VideosForClub lists one club's recorded videos.
func (s *gormStore) VideosForClub(ctx context.Context, clubID int64) ([]model.Video, error) {
	var videos []model.Video
	if err := s.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("weekday, hour, section, court_number").
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// VideoForSlot resolves a recording slot to its video. gorm.ErrRecordNotFound
// is returned when no video exists for the slot.
func (s *gormStore) VideoForSlot(ctx context.Context, clubID int64, courtNumber int, weekday string, hour, section int) (model.Video, error) {
	var video model.Video
	err := s.db.WithContext(ctx).
		Where("club_id = ? AND court_number = ? AND weekday = ? AND hour = ? AND section = ?",
			clubID, courtNumber, weekday, hour, section).
		First(&video).Error
	return video, err
}

// SaveClip stores a registered clip.
func (s *gormStore) SaveClip(ctx context.Context, clip *model.Clip) error {
	if err := s.db.WithContext(ctx).Create(clip).Error; err != nil {
		return fmt.Errorf("failed to save clip for video %s: %w", clip.VideoUID, err)
	}
	return nil
}

func (s *gormStore) fetchClubCameras(ctx context.Context, clubID int64) (map[int]model.Camera, error) {
	var cameras []model.Camera
	if err := s.db.WithContext(ctx).Where("club_id = ?", clubID).Find(&cameras).Error; err != nil {
		return nil, err
	}
	cameraMap := make(map[int]model.Camera, len(cameras))
	for _, c := range cameras {
		cameraMap[c.ID] = c
	}
	return cameraMap, nil
}
