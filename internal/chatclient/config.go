package chatclient

import (
	"time"

	"wakuchat/core/internal/dedupe"
	"wakuchat/core/internal/transport"
)

// Config parameterizes a Client's dedupe cache, connect deadline, and
// reliable-send retry policy. It is intended to be loaded from YAML
// alongside the rest of a process's configuration.
type Config struct {
	DedupeTTL      time.Duration `yaml:"dedupeTTL"`
	DedupeCapacity int           `yaml:"dedupeCapacity"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	RetryBase      time.Duration `yaml:"retryBase"`
	RetryCap       time.Duration `yaml:"retryCap"`
	RetryMax       int           `yaml:"retryMax"`

	// InboundPerSenderRPS/InboundPerSenderBurst token-bucket incoming
	// envelopes per sender id, guarding against a single misbehaving or
	// replaying peer flooding the receive pipeline. RPS <= 0 disables
	// the guard entirely.
	InboundPerSenderRPS   float64       `yaml:"inboundPerSenderRPS"`
	InboundPerSenderBurst int           `yaml:"inboundPerSenderBurst"`
	InboundIdleTTL        time.Duration `yaml:"inboundIdleTTL"`
}

// DefaultConfig mirrors dedupe's and transport's own package defaults.
func DefaultConfig() Config {
	return Config{
		DedupeTTL:      dedupe.DefaultTTL,
		DedupeCapacity: dedupe.DefaultCapacity,
		ConnectTimeout: DefaultConnectDeadline,
		RetryBase:      transport.DefaultRetryConfig.Base,
		RetryCap:       transport.DefaultRetryConfig.Cap,
		RetryMax:       transport.DefaultRetryConfig.MaxRetries,
		// Per-sender throttling is opt-in: a default-on limiter would
		// surprise callers replaying their own history or bursting
		// legitimate traffic in tests and local tooling.
		InboundPerSenderRPS:   0,
		InboundPerSenderBurst: 0,
		InboundIdleTTL:        10 * time.Minute,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = dedupe.DefaultTTL
	}
	if cfg.DedupeCapacity <= 0 {
		cfg.DedupeCapacity = dedupe.DefaultCapacity
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectDeadline
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = transport.DefaultRetryConfig.Base
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = transport.DefaultRetryConfig.Cap
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = transport.DefaultRetryConfig.MaxRetries
	}
	if cfg.InboundIdleTTL <= 0 {
		cfg.InboundIdleTTL = 10 * time.Minute
	}
	return cfg
}

func (cfg Config) retryConfig() transport.RetryConfig {
	return transport.RetryConfig{
		Base:       cfg.RetryBase,
		Cap:        cfg.RetryCap,
		MaxRetries: cfg.RetryMax,
	}
}
