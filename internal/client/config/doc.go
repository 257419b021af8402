// Package config loads runtime configuration for the Desa Bantuin client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. Command-line flags (see parseFlags), which override earlier values.
//  4. The storage passphrase, read only from DESA_STORAGE_PASSPHRASE.
//
// Supported flags
//
//	-a string   base URL of the village office API
//	-t int      API request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-s string   session storage backend: sqlite, securefile, redis, memory
//	-d string   path of the local SQLite database
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://desa.example.id/api",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "session_backend": "securefile",
//	  "database_path": "desabantuin.db",
//	  "secure_file_path": "session.enc",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_key_prefix": "desabantuin:",
//	  "device_id": "kiosk-01",
//	  "log_level": "info"
//	}
package config
