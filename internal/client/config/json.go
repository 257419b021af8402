package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/desabantuin/internal/flagx"
	"github.com/dmitrijs2005/desabantuin/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Empty fields leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SessionBackend      string         `json:"session_backend"`
	DatabasePath        string         `json:"database_path"`
	SecureFilePath      string         `json:"secure_file_path"`
	RedisAddr           string         `json:"redis_addr"`
	RedisKeyPrefix      string         `json:"redis_key_prefix"`
	DeviceID            string         `json:"device_id"`
	LogLevel            string         `json:"log_level"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c/-config in args.
// It panics on read or decode errors; a broken config file is fatal at startup.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.SessionBackend, jc.SessionBackend)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.SecureFilePath, jc.SecureFilePath)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.RedisKeyPrefix, jc.RedisKeyPrefix)
	overlay(&cfg.DeviceID, jc.DeviceID)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
