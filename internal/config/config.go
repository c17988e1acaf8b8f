// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the provider client,
// and the design event workers.
type Config struct {
	HTTPAddr           string
	ShutdownTimeout    time.Duration
	ProviderAPIKey     string
	ProviderAPIBase    string
	NonceTimeout       time.Duration
	WorkerCount        int
	QueueHighWatermark int
}

// DefaultProviderAPIBase is the production fulfillment API endpoint.
const DefaultProviderAPIBase = "https://api.printful.com"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults. The provider
// credential has no default; callers must treat an empty value as a fatal
// misconfiguration before serving traffic.
func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 15),
		ProviderAPIKey:     os.Getenv("PRINTFUL_API_KEY"),
		ProviderAPIBase:    getenv("PRINTFUL_API_BASE", DefaultProviderAPIBase),
		NonceTimeout:       durenvs("NONCE_TIMEOUT", 10),
		WorkerCount:        atoienv("WORKER_COUNT", 3),
		QueueHighWatermark: atoienv("QUEUE_HIGH_WATERMARK", 5000),
	}
}
