// Package config provides shared configuration utilities.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt is GetEnv for integers. Unparsable values fall back with a warning.
func GetEnvInt(key string, fallback int) int {
	return getEnvParsed(key, fallback, strconv.Atoi)
}

// GetEnvInt64 is GetEnv for 64-bit integers, used for seeds.
func GetEnvInt64(key string, fallback int64) int64 {
	return getEnvParsed(key, fallback, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// GetEnvFloat is GetEnv for floats.
func GetEnvFloat(key string, fallback float64) float64 {
	return getEnvParsed(key, fallback, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool is GetEnv for booleans (1, t, true, 0, f, false, ...).
func GetEnvBool(key string, fallback bool) bool {
	return getEnvParsed(key, fallback, strconv.ParseBool)
}

// GetEnvDuration is GetEnv for durations such as "16ms" or "2s".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	return getEnvParsed(key, fallback, time.ParseDuration)
}

func getEnvParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		log.Warn("Ignoring invalid environment value", "key", key, "value", raw, "default", fallback, "err", err)
		return fallback
	}
	return v
}

// GetLogLevel reads a charmbracelet/log level name (debug, info, warn, error).
func GetLogLevel(key string, fallback log.Level) log.Level {
	return getEnvParsed(key, fallback, log.ParseLevel)
}
