package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"smashvision-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers sending camera-went-live pushes.
type WorkerPool struct {
	size    int
	jobs    chan int
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case cameraID := <-wp.jobs:
			log.Printf("Worker %d processing camera %d", id, cameraID)
			wp.sendNotificationsForCamera(ctx, cameraID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(cameraID int) {
	wp.jobs <- cameraID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int {
	return wp.jobs
}

// sendNotificationsForCamera fetches subscriptions and notifies everyone
// watching the camera's court that it went live.
func (wp *WorkerPool) sendNotificationsForCamera(ctx context.Context, cameraID int) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_camera_mapping scm ON scm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("scm.camera_id = ?", cameraID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for camera %d: %v", cameraID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for camera %d", len(subscriptions), cameraID)

	var camera model.Camera
	courtLabel := fmt.Sprintf("camera %d", cameraID)
	if err := wp.db.WithContext(ctx).
		Select("court_number").
		First(&camera, cameraID).Error; err != nil {
		log.Printf("Error fetching camera %d: %v", cameraID, err)
	} else if camera.CourtNumber > 0 {
		courtLabel = fmt.Sprintf("court %d", camera.CourtNumber)
	}

	message := fmt.Sprintf("Live stream started on %s!", courtLabel)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
