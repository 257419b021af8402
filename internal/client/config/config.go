package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Session storage backends selectable at startup.
const (
	BackendSQLite     = "sqlite"
	BackendSecureFile = "securefile"
	BackendRedis      = "redis"
	BackendMemory     = "memory"
)

// PassphraseEnv names the environment variable holding the securefile
// passphrase. Secrets never come from flags or the JSON file.
const PassphraseEnv = "DESA_STORAGE_PASSPHRASE"

var (
	ErrUnknownBackend    = errors.New("unknown session backend")
	ErrMissingBaseURL    = errors.New("api base url is empty")
	ErrMissingPassphrase = errors.New("securefile backend requires " + PassphraseEnv)
)

// Config holds runtime settings for the client.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	SessionBackend    string
	DatabasePath      string
	SecureFilePath    string
	StoragePassphrase string
	RedisAddr         string
	RedisKeyPrefix    string
	DeviceID          string

	LogLevel string
}

// LoadDefaults populates c with the values used by a fresh install.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://10.0.2.2:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionBackend = BackendSQLite
	c.DatabasePath = "desabantuin.db"
	c.SecureFilePath = "session.enc"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKeyPrefix = "desabantuin:"
	c.DeviceID = "local"
	c.LogLevel = "info"
}

// Validate reports configuration that cannot produce a working client.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrMissingBaseURL
	}
	switch c.SessionBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	case BackendSecureFile:
		if c.StoragePassphrase == "" {
			return ErrMissingPassphrase
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SessionBackend)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the optional JSON file, flags
// and the passphrase environment variable, in that order.
func LoadConfig() *Config {
	return load(os.Args[1:], os.Getenv)
}

func load(args []string, getenv func(string) string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	cfg.StoragePassphrase = getenv(PassphraseEnv)
	return cfg
}
