package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Remote     RemoteConfig     `yaml:"remote"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	Auth       AuthConfig       `yaml:"auth"`
	Sync       SyncConfig       `yaml:"sync"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the local HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// RemoteConfig describes the SmashVision cloud REST API.
type RemoteConfig struct {
	BaseURL        string            `yaml:"base_url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// WebSocketConfig tunes the live-status push connection.
type WebSocketConfig struct {
	BaseURL                string        `yaml:"base_url"`
	MaxReconnectAttempts   int           `yaml:"max_reconnect_attempts"`
	ReconnectBaseDelayMS   int           `yaml:"reconnect_base_delay_ms"`
	ReconnectMaxDelayMS    int           `yaml:"reconnect_max_delay_ms"`
	StalenessWindowSeconds int           `yaml:"staleness_window_seconds"`
	ReconnectBaseDelay     time.Duration `yaml:"-"` // Ignored by YAML parser
	ReconnectMaxDelay      time.Duration `yaml:"-"`
	StalenessWindow        time.Duration `yaml:"-"`
}

// AuthConfig points at the identity provider that issues the short-lived
// bearer tokens used by the push connection.
type AuthConfig struct {
	TokenURL       string `yaml:"token_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SyncConfig controls the snapshot mirroring loop.
type SyncConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	ClubIDs         []int64       `yaml:"club_ids"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Sync.IntervalSeconds <= 0 {
		cfg.Sync.IntervalSeconds = 300
	}
	cfg.Sync.Interval = time.Duration(cfg.Sync.IntervalSeconds) * time.Second

	if cfg.Remote.TimeoutSeconds <= 0 {
		cfg.Remote.TimeoutSeconds = 30
	}
	if cfg.Auth.TimeoutSeconds <= 0 {
		cfg.Auth.TimeoutSeconds = 10
	}

	if cfg.WebSocket.MaxReconnectAttempts <= 0 {
		cfg.WebSocket.MaxReconnectAttempts = 5
	}
	if cfg.WebSocket.ReconnectBaseDelayMS <= 0 {
		cfg.WebSocket.ReconnectBaseDelayMS = 1000
	}
	if cfg.WebSocket.ReconnectMaxDelayMS <= 0 {
		cfg.WebSocket.ReconnectMaxDelayMS = 30000
	}
	if cfg.WebSocket.StalenessWindowSeconds <= 0 {
		cfg.WebSocket.StalenessWindowSeconds = 30
	}
	cfg.WebSocket.ReconnectBaseDelay = time.Duration(cfg.WebSocket.ReconnectBaseDelayMS) * time.Millisecond
	cfg.WebSocket.ReconnectMaxDelay = time.Duration(cfg.WebSocket.ReconnectMaxDelayMS) * time.Millisecond
	cfg.WebSocket.StalenessWindow = time.Duration(cfg.WebSocket.StalenessWindowSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
