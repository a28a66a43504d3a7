package sessionauth

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config groups every tunable of the session lifecycle. Instances are
// cloned on Build and treated as immutable afterwards.
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Session  SessionConfig  `json:"session" yaml:"session"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Audit    AuditConfig    `json:"audit" yaml:"audit"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

/*
====================================
PROVIDER CONFIG
====================================
*/

// ProviderConfig configures the HTTP adapter to the identity provider.
type ProviderConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	ClientID string `json:"clientId" yaml:"clientId"`

	// CallTimeout bounds every provider round trip. Provider calls never
	// wait on the network indefinitely.
	CallTimeout time.Duration `json:"callTimeout" yaml:"callTimeout"`

	// ReadyPollInterval and ReadyMaxAttempts bound the startup readiness
	// wait; once exhausted, operations fail fast with ErrProviderNotReady.
	ReadyPollInterval time.Duration `json:"readyPollInterval" yaml:"readyPollInterval"`
	ReadyMaxAttempts  int           `json:"readyMaxAttempts" yaml:"readyMaxAttempts"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig configures token lifetime handling.
type SessionConfig struct {
	// AccessTokenTTL is the lifetime the provider is expected to issue.
	// The authoritative value is the expiresIn of each response; this one
	// only sanity-checks RefreshThreshold.
	AccessTokenTTL time.Duration `json:"accessTokenTtl" yaml:"accessTokenTtl"`

	// RefreshThreshold triggers a proactive refresh once remaining access
	// token lifetime drops below it, so callers never observe an already
	// expired token.
	RefreshThreshold time.Duration `json:"refreshThreshold" yaml:"refreshThreshold"`
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig selects and parameterizes the credential store backend.
type StoreConfig struct {
	Backend  string `json:"backend" yaml:"backend"` // "file", "redis", "memory"
	FilePath string `json:"filePath" yaml:"filePath"`
	RedisKey string `json:"redisKey" yaml:"redisKey"`
}

// AuditConfig controls the async audit event pipeline.
type AuditConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	BufferSize int  `json:"bufferSize" yaml:"bufferSize"`
	DropIfFull bool `json:"dropIfFull" yaml:"dropIfFull"`
}

// MetricsConfig controls the lifecycle metrics counters.
type MetricsConfig struct {
	Enabled                 bool `json:"enabled" yaml:"enabled"`
	EnableLatencyHistograms bool `json:"enableLatencyHistograms" yaml:"enableLatencyHistograms"`
}

// LogConfig controls the optional structured logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			CallTimeout:       10 * time.Second,
			ReadyPollInterval: 100 * time.Millisecond,
			ReadyMaxAttempts:  50,
		},
		Session: SessionConfig{
			AccessTokenTTL:   time.Hour,
			RefreshThreshold: 5 * time.Minute,
		},
		Store: StoreConfig{
			Backend:  "file",
			FilePath: filepath.Join(os.TempDir(), "sessionauth", "session.record"),
			RedisKey: "sessionauth:record",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that would make the lifecycle misbehave.
func (c Config) Validate() error {
	if c.Provider.CallTimeout <= 0 {
		return errors.New("Provider.CallTimeout must be positive")
	}
	if c.Provider.ReadyPollInterval <= 0 {
		return errors.New("Provider.ReadyPollInterval must be positive")
	}
	if c.Provider.ReadyMaxAttempts <= 0 {
		return errors.New("Provider.ReadyMaxAttempts must be positive")
	}
	if c.Session.RefreshThreshold <= 0 {
		return errors.New("Session.RefreshThreshold must be positive")
	}
	if c.Session.AccessTokenTTL > 0 && c.Session.RefreshThreshold >= c.Session.AccessTokenTTL {
		return errors.New("Session.RefreshThreshold must be below Session.AccessTokenTTL")
	}
	switch c.Store.Backend {
	case "file", "redis", "memory":
	default:
		return errors.New("Store.Backend must be file, redis, or memory")
	}
	if c.Store.Backend == "file" && c.Store.FilePath == "" {
		return errors.New("Store.FilePath required for file backend")
	}
	if c.Store.Backend == "redis" && c.Store.RedisKey == "" {
		return errors.New("Store.RedisKey required for redis backend")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	return cfg
}
