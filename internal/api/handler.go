package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"smashvision-backend/internal/livesync"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	live    *livesync.Client
	remote  *remote.Client
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, live *livesync.Client, rc *remote.Client) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		live:    live,
		remote:  rc,
	}
}
