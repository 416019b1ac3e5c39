package config

import (
	"errors"
	"fmt"
	"time"
)

// Client defaults.
const (
	DefaultClientServerAddress  = "localhost:8080"
	DefaultClientRequestTimeout = 15 * time.Second
)

// ErrInvalidClientConfigs indicates a negative request timeout.
var ErrInvalidClientConfigs = errors.New("invalid client configuration")

// ClientConfig configures the command-line client.
type ClientConfig struct {
	Adapter ClientAdapter `envPrefix:"CLIENT_"`
}

// ClientAdapter holds the settings of the HTTP API client.
type ClientAdapter struct {
	// HTTPAddress is the base URL (or host:port) of the server.
	// Env: CLIENT_SERVER_ADDRESS
	HTTPAddress string `env:"SERVER_ADDRESS"`

	// AccessToken is sent as a bearer token with every call. It may be a
	// session token or the master key.
	// Env: CLIENT_ACCESS_TOKEN
	AccessToken string `env:"ACCESS_TOKEN"`

	// RequestTimeout bounds a single API call.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetClientConfig reads the client configuration from the environment.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := parseEnv[ClientConfig]()
	if err != nil {
		return nil, err
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return nil, fmt.Errorf("%w: request timeout must not be negative", ErrInvalidClientConfigs)
	}
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = DefaultClientServerAddress
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultClientRequestTimeout
	}

	return cfg, nil
}
