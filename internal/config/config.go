package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// Config represents the global ~/.chatsync/config.toml.
type Config struct {
	DefaultSession string          `toml:"default_session"`
	LogLevel       string          `toml:"log_level"`
	Identity       IdentityConfig  `toml:"identity"`
	Backend        BackendConfig   `toml:"backend"`
	Sync           SyncConfig      `toml:"sync"`
	Transport      TransportConfig `toml:"transport"`
	Send           SendConfig      `toml:"send"`
	Server         ServerConfig    `toml:"server"`
}

// IdentityConfig is the signed-in user. Sign-in itself happens elsewhere.
type IdentityConfig struct {
	UserID int64  `toml:"user_id"`
	Token  string `toml:"token"`
}

// BackendConfig locates the REST endpoints and the live channel.
type BackendConfig struct {
	BaseURL        string   `toml:"base_url"`
	LiveURL        string   `toml:"live_url"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// SyncConfig tunes the synchronizer.
type SyncConfig struct {
	// PollInterval is the reconciliation poll period while the live channel is down.
	PollInterval Duration `toml:"poll_interval"`
	// FreshnessWindow is how long a fetched history counts as current.
	FreshnessWindow Duration `toml:"freshness_window"`
	// AckTimeout bounds the wait for a live send acknowledgement.
	AckTimeout Duration `toml:"ack_timeout"`
}

// TransportConfig bounds reconnects of the live channel.
type TransportConfig struct {
	MaxReconnectAttempts int      `toml:"max_reconnect_attempts"`
	InitialBackoff       Duration `toml:"initial_backoff"`
	MaxBackoff           Duration `toml:"max_backoff"`
	SendQueueSize        int      `toml:"send_queue_size"`
	HandshakeTimeout     Duration `toml:"handshake_timeout"`
}

// SendConfig bounds REST send retries.
type SendConfig struct {
	MaxAttempts    int      `toml:"max_attempts"`
	InitialBackoff Duration `toml:"initial_backoff"`
}

// ServerConfig configures the reference backend, chatsimd.
type ServerConfig struct {
	Listen string     `toml:"listen"`
	DBPath string     `toml:"db_path"`
	Users  []SeedUser `toml:"users"`
}

// SeedUser is a backend account created at startup.
type SeedUser struct {
	ID    int64  `toml:"id"`
	Name  string `toml:"name"`
	Token string `toml:"token"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultSession: "main",
		LogLevel:       "info",
		Backend: BackendConfig{
			BaseURL:        "http://127.0.0.1:8080",
			LiveURL:        "ws://127.0.0.1:8080/ws",
			RequestTimeout: Duration{10 * time.Second},
		},
		Sync: SyncConfig{
			PollInterval:    Duration{15 * time.Second},
			FreshnessWindow: Duration{time.Minute},
			AckTimeout:      Duration{5 * time.Second},
		},
		Transport: TransportConfig{
			MaxReconnectAttempts: 5,
			InitialBackoff:       Duration{time.Second},
			MaxBackoff:           Duration{30 * time.Second},
			SendQueueSize:        64,
			HandshakeTimeout:     Duration{10 * time.Second},
		},
		Send: SendConfig{
			MaxAttempts:    3,
			InitialBackoff: Duration{time.Second},
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8080",
			DBPath: "chatsim.db",
		},
	}
}

// Load reads config from the given path on top of Default. Returns an error
// if the file is missing or invalid.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := map[string]time.Duration{
		"backend.request_timeout":     c.Backend.RequestTimeout.Duration,
		"sync.poll_interval":          c.Sync.PollInterval.Duration,
		"sync.freshness_window":       c.Sync.FreshnessWindow.Duration,
		"sync.ack_timeout":            c.Sync.AckTimeout.Duration,
		"transport.initial_backoff":   c.Transport.InitialBackoff.Duration,
		"transport.max_backoff":       c.Transport.MaxBackoff.Duration,
		"transport.handshake_timeout": c.Transport.HandshakeTimeout.Duration,
		"send.initial_backoff":        c.Send.InitialBackoff.Duration,
	}
	for name, d := range positive {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Transport.MaxBackoff.Duration < c.Transport.InitialBackoff.Duration {
		errs = append(errs, errors.New("transport.max_backoff must not be below transport.initial_backoff"))
	}
	if c.Transport.MaxReconnectAttempts < 1 {
		errs = append(errs, errors.New("transport.max_reconnect_attempts must be at least 1"))
	}
	if c.Transport.SendQueueSize < 1 {
		errs = append(errs, errors.New("transport.send_queue_size must be at least 1"))
	}
	if c.Send.MaxAttempts < 1 {
		errs = append(errs, errors.New("send.max_attempts must be at least 1"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Identity.UserID < 0 {
		errs = append(errs, errors.New("identity.user_id must not be negative"))
	}
	return errors.Join(errs...)
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
