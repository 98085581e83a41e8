// Package snapshot mirrors the cloud's clubs, cameras and videos into the
// local database on a fixed interval, with immediate re-syncs whenever the
// live-status connection signals a reload.
package snapshot

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"smashvision-backend/config"
	"smashvision-backend/internal/notification"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/store"
)

// Service orchestrates the snapshot mirroring process.
type Service struct {
	cfg        *config.Config
	store      store.Store
	remote     *remote.Client
	workerPool *notification.WorkerPool
	reloads    <-chan struct{}
}

// NewService creates and initializes a new snapshot service. reloads may be
// nil; the service then only syncs on its interval.
func NewService(cfg *config.Config, st store.Store, rc *remote.Client, reloads <-chan struct{}) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, st.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      st,
		remote:     rc,
		workerPool: workerPool,
		reloads:    reloads,
	}
}

// Run starts the sync process in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sync.Enabled {
		log.Println("Snapshot sync is disabled. Not starting.")
		return
	}
	log.Println("Starting snapshot sync service...")

	// Start the worker pool
	s.workerPool.Start(ctx)

	s.SyncOnce(ctx)

	timer := time.NewTimer(s.cfg.Sync.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot sync service shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.cfg.Sync.Interval)
		case <-s.reloads:
			log.Println("Reload signal received, syncing immediately.")
			s.SyncOnce(ctx)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.cfg.Sync.Interval)
		}
	}
}

// SyncOnce performs a single round of mirroring and calls the store to
// persist changes. A failed fetch leaves the previous snapshot in place.
func (s *Service) SyncOnce(ctx context.Context) {
	log.Println("Executing sync cycle...")

	clubs, err := s.fetchClubs(ctx)
	if err != nil {
		log.Printf("Error fetching clubs: %v. Mirrored data will not be updated.", err)
		return
	}

	for _, club := range clubs {
		if err := s.syncClub(ctx, club); err != nil {
			log.Printf("Error syncing club %d: %v", club.ID, err)
		}
	}

	log.Println("Sync cycle finished.")
}

// fetchClubs resolves the set of clubs to mirror. An explicit club_ids list
// in the configuration restricts the sync to those clubs.
func (s *Service) fetchClubs(ctx context.Context) ([]store.ClubSnapshot, error) {
	if len(s.cfg.Sync.ClubIDs) == 0 {
		return s.remote.Clubs(ctx)
	}

	clubs := make([]store.ClubSnapshot, 0, len(s.cfg.Sync.ClubIDs))
	for _, id := range s.cfg.Sync.ClubIDs {
		club, err := s.remote.Club(ctx, id)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	return clubs, nil
}

func (s *Service) syncClub(ctx context.Context, club store.ClubSnapshot) error {
	if err := s.store.UpsertClub(ctx, club); err != nil {
		return err
	}

	cameras, err := s.remote.ClubCameras(ctx, club.ID)
	if err != nil {
		// Keep the previous camera snapshot on fetch failure.
		log.Printf("Error fetching cameras for club %d: %v", club.ID, err)
	} else {
		wentLive, err := s.store.ApplyCameraSnapshot(ctx, club.ID, cameras)
		if err != nil {
			return err
		}
		if len(wentLive) > 0 {
			log.Printf("Dispatching notifications for %d cameras", len(wentLive))
			for _, cameraID := range wentLive {
				s.workerPool.Dispatch(cameraID)
			}
		}
	}

	videos, err := s.remote.ClubVideos(ctx, club.ID)
	if err != nil {
		log.Printf("Error fetching videos for club %d: %v", club.ID, err)
		return nil
	}
	return s.store.ReplaceVideos(ctx, club.ID, videos)
}
