// Package livesync maintains a near-real-time view of camera status by
// listening to the cloud's WebSocket push channel. Push events never carry
// camera payloads of their own; they bump a reload trigger that tells
// consumers to re-fetch the authoritative REST snapshot. Dropped
// connections reconnect automatically with exponential backoff.
package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"smashvision-backend/internal/auth"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	// StateGivenUp is entered after the reconnect attempt budget is
	// exhausted; only an explicit Connect leaves it.
	StateGivenUp
	// StateClosed is entered by Disconnect.
	StateClosed
)

// Recognized push event types. The two LIVE_STREAM_* types are a legacy
// shape and are handled identically to RELOAD_CAMERAS: a reload signal
// with no per-camera payload.
const (
	EventReloadCameras     = "RELOAD_CAMERAS"
	EventLiveStreamStarted = "LIVE_STREAM_STARTED"
	EventLiveStreamStopped = "LIVE_STREAM_STOPPED"
)

// LiveUpdate is a push-delivered refinement of one camera's REST-sourced
// state, valid only while younger than the staleness window.
type LiveUpdate struct {
	Status    string
	StreamURL *string
	Notes     *string
	Timestamp time.Time
}

// Conn is the minimal transport surface the client needs. Satisfied by
// *websocket.Conn.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a push transport connection.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct{}

// Dial implements Dialer.
func (WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// Options configures a Client. Zero values get production defaults.
type Options struct {
	BaseURL string
	Tokens  auth.TokenSource
	Dialer  Dialer
	Clock   func() time.Time

	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
	StalenessWindow      time.Duration
	DialTimeout          time.Duration
}

// Client owns the single push connection for this process. All state is
// guarded by one mutex; callbacks from the transport and the reconnect
// timer funnel through it.
type Client struct {
	baseURL     string
	tokens      auth.TokenSource
	dialer      Dialer
	clock       func() time.Time
	afterFunc   func(time.Duration, func()) *time.Timer
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	staleness   time.Duration
	dialTimeout time.Duration

	mu             sync.Mutex
	state          State
	conn           Conn
	gen            uint64
	attempts       int
	reconnectTimer *time.Timer
	reloadTrigger  int64
	updates        map[int]LiveUpdate
	reloads        chan struct{}
}

// New creates a disconnected client. Call Connect to open the channel.
func New(opts Options) *Client {
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxReconnectAttempts <= 0 {
		opts.MaxReconnectAttempts = 5
	}
	if opts.ReconnectBaseDelay <= 0 {
		opts.ReconnectBaseDelay = time.Second
	}
	if opts.ReconnectMaxDelay <= 0 {
		opts.ReconnectMaxDelay = 30 * time.Second
	}
	if opts.StalenessWindow <= 0 {
		opts.StalenessWindow = 30 * time.Second
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 15 * time.Second
	}

	return &Client{
		baseURL:     opts.BaseURL,
		tokens:      opts.Tokens,
		dialer:      opts.Dialer,
		clock:       opts.Clock,
		afterFunc:   time.AfterFunc,
		maxAttempts: opts.MaxReconnectAttempts,
		baseDelay:   opts.ReconnectBaseDelay,
		maxDelay:    opts.ReconnectMaxDelay,
		staleness:   opts.StalenessWindow,
		dialTimeout: opts.DialTimeout,
		updates:     make(map[int]LiveUpdate),
		reloads:     make(chan struct{}, 1),
	}
}

// Connect fetches a fresh token and opens the push transport. It is not
// idempotent: calling it while already connected opens a second transport,
// so callers invoke it once at startup and otherwise leave reconnects to
// the client. If the token source yields an empty token the attempt aborts
// silently with no retry scheduled; callers must watch Connected.
func (c *Client) Connect() {
	c.connect(false)
}

func (c *Client) connect(scheduled bool) {
	c.mu.Lock()
	if scheduled && c.state != StateReconnecting {
		// Disconnect won the race against a fired timer.
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		log.Printf("Error obtaining push channel token: %v", err)
		c.setState(StateDisconnected)
		return
	}
	if token == "" {
		// No session yet. Abort without retrying.
		c.setState(StateDisconnected)
		return
	}

	conn, err := c.dialer.Dial(ctx, fmt.Sprintf("%s/ws?token=%s", c.baseURL, token))
	if err != nil {
		log.Printf("Error connecting push channel: %v", err)
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.state == StateClosed {
		// Disconnected while the dial was in flight.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.gen++
	gen := c.gen
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()

	log.Printf("Push channel connected")
	go c.readLoop(conn, gen)
}

// Disconnect cancels any pending reconnect timer and closes the transport.
// Safe to call multiple times. A closed client can be reopened with an
// explicit Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateClosed
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Connected reports whether the push channel is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReloadTrigger returns the timestamp (unix milliseconds) of the last push
// event that requested a snapshot re-fetch. Consumers re-fetch whenever
// the value changes.
func (c *Client) ReloadTrigger() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadTrigger
}

// Reloads exposes the reload trigger as a coalescing channel: at most one
// pending signal regardless of how many events arrived. The snapshot
// service re-fetches on every receive.
func (c *Client) Reloads() <-chan struct{} {
	return c.reloads
}

// LiveUpdates returns a copy of the per-camera overlay map.
func (c *Client) LiveUpdates() map[int]LiveUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]LiveUpdate, len(c.updates))
	for id, u := range c.updates {
		out[id] = u
	}
	return out
}

func (c *Client) readLoop(conn Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			stale := c.gen != gen || c.state == StateClosed
			if !stale {
				c.conn = nil
			}
			c.mu.Unlock()

			if stale {
				return
			}
			log.Printf("Push channel disconnected: %v", err)
			c.scheduleReconnect()
			return
		}
		c.handleMessage(data)
	}
}

type pushEvent struct {
	Type string `json:"type"`
}

func (c *Client) handleMessage(data []byte) {
	var event pushEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("Error parsing push message: %v", err)
		return
	}

	switch event.Type {
	case EventReloadCameras, EventLiveStreamStarted, EventLiveStreamStopped:
		c.mu.Lock()
		c.reloadTrigger = c.clock().UnixMilli()
		c.mu.Unlock()

		select {
		case c.reloads <- struct{}{}:
		default:
		}
	default:
		log.Printf("Unknown push message type: %q", event.Type)
	}
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return
	}
	if c.attempts >= c.maxAttempts {
		c.state = StateGivenUp
		log.Printf("Push channel gave up after %d reconnect attempts", c.attempts)
		return
	}

	delay := c.baseDelay << c.attempts
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	c.attempts++
	c.state = StateReconnecting
	c.reconnectTimer = c.afterFunc(delay, func() { c.connect(true) })
	log.Printf("Push channel reconnecting in %s (attempt %d/%d)", delay, c.attempts, c.maxAttempts)
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
