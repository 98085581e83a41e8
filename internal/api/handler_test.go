package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"smashvision-backend/config"
	"smashvision-backend/internal/model"
	"smashvision-backend/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Club{}, &model.Camera{}, &model.Video{}, &model.Clip{}, &model.PushSubscription{},
	))

	s := store.NewGormStore(db)
	webpushOptions := &webpush.Options{VAPIDPublicKey: "test-public-key"}
	r := NewRouter(&config.ServerConfig{RateLimitPerSec: 1000}, s, webpushOptions, nil, nil)
	return r, s
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetRecordingClock(t *testing.T) {
	r, _ := newTestRouter(t)

	// 40-minute recording ending at the 19:30 section boundary.
	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/clock?hour=19&section=0&duration=2400&elapsed=2295", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "18:50:00", resp["start"])
	// The synchronized clock counts from the slot hour, not the start hour.
	assert.Equal(t, "20:28:15", resp["wall_clock"])
}

func TestGetRecordingClock_DefaultStart(t *testing.T) {
	r, _ := newTestRouter(t)

	// No duration reported: the start falls back to the section boundary,
	// which for section 1 is the top of the next hour.
	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/clock?hour=14&section=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "15:00:00", resp["start"])
}

func TestGetRecordingClock_BadParams(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/clock?hour=x&section=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSeekOffset(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/seek?moment=19:10:00&hour=19&section=0&duration=2400", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Start is 18:50:00, so 19:10:00 is 1200 seconds in.
	assert.Equal(t, 1200.0, resp["offset"])
}

func TestGetSeekOffset_ClampsToBounds(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/seek?moment=18:00:00&hour=19&section=0&duration=2400", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp["offset"])
}

func TestGetSeekOffset_MalformedMoment(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/videos/uid-a/seek?moment=later&hour=19&section=0&duration=2400", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupVideo(t *testing.T) {
	r, s := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertClub(ctx, store.ClubSnapshot{ID: 1, Name: "Padel Center"}))
	require.NoError(t, s.ReplaceVideos(ctx, 1, []store.VideoSnapshot{
		{CourtNumber: 3, Weekday: "monday", Hour: 19, Section: 0, VideoUID: "uid-a"},
	}))

	w := doRequest(r, http.MethodGet, "/api/videos/lookup?club_id=1&weekday=monday&hour=19&court=3&section=0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var video model.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &video))
	assert.Equal(t, "uid-a", video.VideoUID)

	w = doRequest(r, http.MethodGet, "/api/videos/lookup?club_id=1&weekday=tuesday&hour=19&court=3&section=0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLiveStatus_NoClient(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/live/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connected":false,"reload_trigger":0}`, w.Body.String())
}

func TestPutSubscription_BadRequest(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodPut, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	r, s := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertClub(ctx, store.ClubSnapshot{ID: 1, Name: "Padel Center"}))
	_, err := s.ApplyCameraSnapshot(ctx, 1, []store.CameraSnapshot{
		{ID: 10, Name: "Court 1", Status: model.StatusOffline},
	})
	require.NoError(t, err)

	body := `{"endpoint":"https://push.example/abc","p256dh":"k","auth":"a","subscribed_cameras":[10]}`
	w := doRequest(r, http.MethodPut, "/api/subscriptions", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed_cameras":[10]}`, w.Body.String())

	w = doRequest(r, http.MethodDelete, "/api/subscriptions", `{"endpoint":"https://push.example/abc"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/vapid_public_key", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}
