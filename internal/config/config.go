// Package config loads scanner defaults from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime defaults. Command-line flags override every field.
type Config struct {
	Workers  int        // 0 selects the hardware default
	DryRun   bool       // never write tags
	Verbose  bool       // collect events and write the log file
	LogPath  string     // log file written in verbose mode
	LogLevel slog.Level // diagnostics on stderr
}

// DefaultLogPath is used when MQASCAN_LOG is unset.
const DefaultLogPath = "mqascan.log"

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Workers:  envInt("MQASCAN_WORKERS", 0),
		DryRun:   envBool("MQASCAN_DRY_RUN", false),
		Verbose:  envBool("MQASCAN_VERBOSE", false),
		LogPath:  envStr("MQASCAN_LOG", DefaultLogPath),
		LogLevel: ParseLevel(envStr("MQASCAN_LOG_LEVEL", "warn"), slog.LevelWarn),
	}
}

// ParseLevel maps a level name to a slog.Level, falling back on unknown input.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return fallback
	}
	return l
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
