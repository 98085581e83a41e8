package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"smashvision-backend/config"
	"smashvision-backend/internal/model"
	"smashvision-backend/internal/notification"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/store"
)

// mockStore is a mock implementation of the store.Store interface.
type mockStore struct {
	UpsertClubFunc          func(ctx context.Context, club store.ClubSnapshot) error
	ApplyCameraSnapshotFunc func(ctx context.Context, clubID int64, items []store.CameraSnapshot) ([]int, error)
	ReplaceVideosFunc       func(ctx context.Context, clubID int64, items []store.VideoSnapshot) error
}

func (m *mockStore) UpsertClub(ctx context.Context, club store.ClubSnapshot) error {
	return m.UpsertClubFunc(ctx, club)
}

func (m *mockStore) ApplyCameraSnapshot(ctx context.Context, clubID int64, items []store.CameraSnapshot) ([]int, error) {
	return m.ApplyCameraSnapshotFunc(ctx, clubID, items)
}

func (m *mockStore) ReplaceVideos(ctx context.Context, clubID int64, items []store.VideoSnapshot) error {
	return m.ReplaceVideosFunc(ctx, clubID, items)
}

func (m *mockStore) Clubs(ctx context.Context) ([]model.Club, error) { return nil, nil }
func (m *mockStore) Cameras(ctx context.Context, clubID int64) ([]model.Camera, error) {
	return nil, nil
}
func (m *mockStore) VideosForClub(ctx context.Context, clubID int64) ([]model.Video, error) {
	return nil, nil
}
func (m *mockStore) VideoForSlot(ctx context.Context, clubID int64, courtNumber int, weekday string, hour, section int) (model.Video, error) {
	return model.Video{}, gorm.ErrRecordNotFound
}
func (m *mockStore) SaveClip(ctx context.Context, clip *model.Clip) error { return nil }
func (m *mockStore) DB() *gorm.DB                                         { return nil }

func newTestService(cfg *config.Config, st store.Store, serverURL string) *Service {
	rc := remote.NewClient(&config.RemoteConfig{BaseURL: serverURL, TimeoutSeconds: 5})
	return NewService(cfg, st, rc, nil)
}

func TestSyncOnce_DispatchesWentLiveCameras(t *testing.T) {
	// --- Setup ---
	var wg sync.WaitGroup
	wg.Add(1) // We expect one camera ID to be dispatched

	// Mock cloud API server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clubs":
			json.NewEncoder(w).Encode([]store.ClubSnapshot{{ID: 1, Name: "Padel Center"}})
		case "/cameras/club/1":
			json.NewEncoder(w).Encode([]store.CameraSnapshot{
				{ID: 101, Name: "Court 1", Status: model.StatusLive},
			})
		case "/videos/club/1":
			json.NewEncoder(w).Encode([]store.VideoSnapshot{
				{CourtNumber: 1, Weekday: "monday", Hour: 14, Section: 0, VideoUID: "uid-a"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	var replacedVideos []store.VideoSnapshot
	st := &mockStore{
		UpsertClubFunc: func(ctx context.Context, club store.ClubSnapshot) error {
			assert.Equal(t, int64(1), club.ID)
			return nil
		},
		ApplyCameraSnapshotFunc: func(ctx context.Context, clubID int64, items []store.CameraSnapshot) ([]int, error) {
			// Simulate that camera 101 just went live and needs a notification
			return []int{101}, nil
		},
		ReplaceVideosFunc: func(ctx context.Context, clubID int64, items []store.VideoSnapshot) error {
			replacedVideos = items
			return nil
		},
	}

	cfg := &config.Config{
		Sync:       config.SyncConfig{Enabled: true},
		WorkerPool: config.WorkerPoolConfig{Size: 1},
	}

	service := newTestService(cfg, st, server.URL)

	// Replace the real worker pool with a mock one
	mockWorkerPool := notification.NewWorkerPool(1, nil, nil)
	service.workerPool = mockWorkerPool

	// Start the mock worker pool and listen for dispatched jobs
	var dispatchedID int
	go func() {
		for id := range mockWorkerPool.Jobs() {
			dispatchedID = id
			wg.Done()
		}
	}()

	// --- Execution ---
	service.SyncOnce(context.Background())

	// --- Verification ---
	wg.Wait() // Wait for the job to be dispatched
	assert.Equal(t, 101, dispatchedID, "The camera ID returned by ApplyCameraSnapshot should be dispatched to the worker pool")
	require.Len(t, replacedVideos, 1)
	assert.Equal(t, "uid-a", replacedVideos[0].VideoUID)
}

func TestSyncOnce_ClubFetchFailureKeepsSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	st := &mockStore{
		UpsertClubFunc: func(ctx context.Context, club store.ClubSnapshot) error {
			t.Fatal("store must not be touched when the club fetch fails")
			return nil
		},
	}

	cfg := &config.Config{
		Sync:       config.SyncConfig{Enabled: true},
		WorkerPool: config.WorkerPoolConfig{Size: 1},
	}

	service := newTestService(cfg, st, server.URL)
	service.SyncOnce(context.Background())
}

func TestSyncOnce_ExplicitClubList(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		switch r.URL.Path {
		case "/clubs/7":
			json.NewEncoder(w).Encode(store.ClubSnapshot{ID: 7, Name: "Club Seven"})
		case "/cameras/club/7":
			json.NewEncoder(w).Encode([]store.CameraSnapshot{})
		case "/videos/club/7":
			json.NewEncoder(w).Encode([]store.VideoSnapshot{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	st := &mockStore{
		UpsertClubFunc: func(ctx context.Context, club store.ClubSnapshot) error { return nil },
		ApplyCameraSnapshotFunc: func(ctx context.Context, clubID int64, items []store.CameraSnapshot) ([]int, error) {
			return nil, nil
		},
		ReplaceVideosFunc: func(ctx context.Context, clubID int64, items []store.VideoSnapshot) error {
			return nil
		},
	}

	cfg := &config.Config{
		Sync:       config.SyncConfig{Enabled: true, ClubIDs: []int64{7}},
		WorkerPool: config.WorkerPoolConfig{Size: 1},
	}

	service := newTestService(cfg, st, server.URL)
	service.SyncOnce(context.Background())

	assert.Contains(t, requested, "/clubs/7")
	assert.NotContains(t, requested, "/clubs")
}
