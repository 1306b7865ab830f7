package config

import (
	"os"
	"time"
)

// Timeouts holds the tunable timing values for remote operations.
type Timeouts struct {
	Operation         time.Duration // ceiling for a single remote call, poller included
	RetryInitialDelay time.Duration // first backoff delay between retry attempts
}

// LoadTimeouts loads timeout configuration from environment variables,
// falling back to defaults when a variable is unset or invalid.
//
// Environment Variables:
//   - VNETMESH_TIMEOUT_OPERATION (default: 300s)
//   - VNETMESH_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Operation:         parseDuration("VNETMESH_TIMEOUT_OPERATION", 300*time.Second),
		RetryInitialDelay: parseDuration("VNETMESH_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
