// Package remote is the typed client for the SmashVision cloud REST API.
// The cloud is the authority for clubs, cameras, recorded videos and best
// moments; this service only mirrors and overlays.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smashvision-backend/config"
	"smashvision-backend/internal/store"
)

// Client talks to the cloud API.
type Client struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewClient creates a cloud API client from configuration.
func NewClient(cfg *config.RemoteConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		headers: cfg.Headers,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// BestMoment is a noteworthy timestamp inside a recording, as reported by
// the cloud's analysis pipeline.
type BestMoment struct {
	Time string `json:"Time"` // wall-clock HH:MM:SS
}

// SlotQuery identifies one recording slot.
type SlotQuery struct {
	ClubID      int64  `json:"id_club"`
	Weekday     string `json:"weekday"`
	Hour        int    `json:"hour"`
	CourtNumber int    `json:"court_number"`
	Section     int    `json:"section"`
}

// ClipRegistration is the payload for registering a user-created clip.
type ClipRegistration struct {
	VideoUID  string  `json:"uid"`
	Tag       string  `json:"tag"`
	ClubID    int64   `json:"club_id"`
	UserID    string  `json:"user_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Clubs fetches all clubs.
func (c *Client) Clubs(ctx context.Context) ([]store.ClubSnapshot, error) {
	var clubs []store.ClubSnapshot
	if err := c.get(ctx, "/clubs", &clubs); err != nil {
		return nil, fmt.Errorf("failed to fetch clubs: %w", err)
	}
	return clubs, nil
}

// Club fetches one club by id.
func (c *Client) Club(ctx context.Context, clubID int64) (store.ClubSnapshot, error) {
	var club store.ClubSnapshot
	if err := c.get(ctx, fmt.Sprintf("/clubs/%d", clubID), &club); err != nil {
		return store.ClubSnapshot{}, fmt.Errorf("failed to fetch club %d: %w", clubID, err)
	}
	return club, nil
}

// ClubCameras fetches the authoritative camera snapshot for a club.
func (c *Client) ClubCameras(ctx context.Context, clubID int64) ([]store.CameraSnapshot, error) {
	var cameras []store.CameraSnapshot
	if err := c.get(ctx, fmt.Sprintf("/cameras/club/%d", clubID), &cameras); err != nil {
		return nil, fmt.Errorf("failed to fetch cameras for club %d: %w", clubID, err)
	}
	return cameras, nil
}

// ClubVideos fetches the slot-to-video mapping for a club.
func (c *Client) ClubVideos(ctx context.Context, clubID int64) ([]store.VideoSnapshot, error) {
	var videos []store.VideoSnapshot
	if err := c.get(ctx, fmt.Sprintf("/videos/club/%d", clubID), &videos); err != nil {
		return nil, fmt.Errorf("failed to fetch videos for club %d: %w", clubID, err)
	}
	return videos, nil
}

// BestMoments queries the best moments recorded for one slot's video.
func (c *Client) BestMoments(ctx context.Context, query SlotQuery) ([]BestMoment, error) {
	var moments []BestMoment
	if err := c.post(ctx, "/videos/bestPoints", query, &moments); err != nil {
		return nil, fmt.Errorf("failed to fetch best moments: %w", err)
	}
	return moments, nil
}

// RegisterClip registers a clip with the cloud so it gets cut and hosted.
func (c *Client) RegisterClip(ctx context.Context, reg ClipRegistration) error {
	if err := c.post(ctx, "/clips", reg, nil); err != nil {
		return fmt.Errorf("failed to register clip for video %s: %w", reg.VideoUID, err)
	}
	return nil
}

// BlockVideo hides a video from members.
func (c *Client) BlockVideo(ctx context.Context, videoID int64) error {
	if err := c.put(ctx, fmt.Sprintf("/videos/%d/block", videoID)); err != nil {
		return fmt.Errorf("failed to block video %d: %w", videoID, err)
	}
	return nil
}

// UnblockVideo makes a blocked video visible again.
func (c *Client) UnblockVideo(ctx context.Context, videoID int64) error {
	if err := c.put(ctx, fmt.Sprintf("/videos/%d/unblock", videoID)); err != nil {
		return fmt.Errorf("failed to unblock video %d: %w", videoID, err)
	}
	return nil
}

// StartLive asks the cloud to start streaming a camera.
func (c *Client) StartLive(ctx context.Context, cameraID int, body map[string]any) error {
	if err := c.post(ctx, fmt.Sprintf("/cameras/%d/startLive", cameraID), liveBody(body), nil); err != nil {
		return fmt.Errorf("failed to start live stream for camera %d: %w", cameraID, err)
	}
	return nil
}

// StopLive asks the cloud to stop streaming a camera.
func (c *Client) StopLive(ctx context.Context, cameraID int, body map[string]any) error {
	if err := c.post(ctx, fmt.Sprintf("/cameras/%d/stopLive", cameraID), liveBody(body), nil); err != nil {
		return fmt.Errorf("failed to stop live stream for camera %d: %w", cameraID, err)
	}
	return nil
}

// liveBody keeps an empty provider-options map out of the request, so the
// cloud sees no body at all rather than a JSON null.
func liveBody(body map[string]any) any {
	if len(body) == 0 {
		return nil
	}
	return body
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
