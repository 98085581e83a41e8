package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"smashvision-backend/config"
	"smashvision-backend/internal/livesync"
	"smashvision-backend/internal/mw"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, webpushOptions *webpush.Options, live *livesync.Client, rc *remote.Client) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, live, rc)

	rps := cfg.RateLimitPerSec
	if rps <= 0 {
		rps = 10
	}
	rateLimiter := mw.RateLimiter(rate.Limit(rps), 5)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/clubs", caching, handler.GetClubs)
		api.GET("/clubs/:club_id/cameras", handler.GetClubCameras)
		api.GET("/clubs/:club_id/videos", caching, handler.GetClubVideos)

		api.GET("/videos/lookup", handler.LookupVideo)
		api.GET("/videos/:video/clock", handler.GetRecordingClock)
		api.GET("/videos/:video/seek", handler.GetSeekOffset)
		api.GET("/videos/:video/best-moments", caching, handler.GetBestMoments)
		api.POST("/videos/:video/block", handler.BlockVideo)
		api.DELETE("/videos/:video/block", handler.UnblockVideo)

		api.POST("/clips", handler.PostClip)

		api.POST("/cameras/:camera_id/live/start", handler.StartLive)
		api.POST("/cameras/:camera_id/live/stop", handler.StopLive)
		api.GET("/live/status", handler.GetLiveStatus)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
