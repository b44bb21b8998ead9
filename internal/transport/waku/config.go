// Package waku adapts github.com/waku-org/go-waku's relay and legacy
// Store protocols to the transport.Transport contract. It is gated
// behind the real_waku build tag; transport.NewMockTransport is the
// in-process stand-in used everywhere else (tests, local development).
package waku

import "time"

// Config parameterizes the real go-waku node. It is intended to be
// loaded from YAML alongside the rest of the process configuration.
type Config struct {
	Port                int           `yaml:"port"`
	EnableRelay         bool          `yaml:"enableRelay"`
	EnableStore         bool          `yaml:"enableStore"`
	BootstrapNodes      []string      `yaml:"bootstrapNodes"`
	MinPeers            int           `yaml:"minPeers"`
	StoreQueryFanout    int           `yaml:"storeQueryFanout"`
	ReconnectInterval   time.Duration `yaml:"reconnectInterval"`
	ReconnectBackoffMax time.Duration `yaml:"reconnectBackoffMax"`
	ConnectTimeout      time.Duration `yaml:"connectTimeout"`
}

// DefaultConfig returns sane defaults for a single bootstrap-connected
// node.
func DefaultConfig() Config {
	return Config{
		Port:                0,
		EnableRelay:         true,
		EnableStore:         true,
		MinPeers:            2,
		StoreQueryFanout:    2,
		ReconnectInterval:   30 * time.Second,
		ReconnectBackoffMax: 5 * time.Minute,
		ConnectTimeout:      30 * time.Second,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = 30 * time.Second
	}
	if cfg.ReconnectBackoffMax <= 0 {
		cfg.ReconnectBackoffMax = 5 * time.Minute
	}
	if cfg.StoreQueryFanout <= 0 {
		cfg.StoreQueryFanout = 1
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	return cfg
}
