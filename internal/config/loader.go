package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: ARENA_REDIS_ADDR, ARENA_CANCEL_QUORUM, ...
	// Map env keys like ARENA_REDIS_ADDR -> redis_addr (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "arena_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		return nil, errors.New("redis_addr must not be empty")
	}
	if cfg.CancelQuorum < 1 || cfg.CancelQuorum > 8 {
		return nil, errors.New("cancel_quorum must be between 1 and 8")
	}
	if len(cfg.DraftOptionPool) < 10 {
		return nil, errors.New("draft_option_pool needs at least ten entries")
	}
	return &cfg, nil
}
