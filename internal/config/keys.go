package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "vault.dir", typ: kString, env: "DIARIUM_VAULT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Vault.Dir = v.(string) },
		extract: func(cfg Config) any { return cfg.Vault.Dir },
	},
	{
		key: "vault.planner_dir", typ: kString, env: "DIARIUM_PLANNER_DIR",
		apply:   func(cfg *Config, v any) { cfg.Vault.PlannerDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Vault.PlannerDir },
	},
	{
		key: "themes.max_themes", typ: kInt, env: "DIARIUM_MAX_THEMES",
		apply:   func(cfg *Config, v any) { cfg.Themes.MaxThemes = v.(int) },
		extract: func(cfg Config) any { return cfg.Themes.MaxThemes },
	},
	{
		key: "themes.min_frequency", typ: kInt, env: "DIARIUM_MIN_THEME_FREQUENCY",
		apply:   func(cfg *Config, v any) { cfg.Themes.MinFrequency = v.(int) },
		extract: func(cfg Config) any { return cfg.Themes.MinFrequency },
	},
	{
		key: "links.similarity_threshold", typ: kFloat, env: "DIARIUM_SIMILARITY_THRESHOLD",
		apply:   func(cfg *Config, v any) { cfg.Links.SimilarityThreshold = v.(float64) },
		extract: func(cfg Config) any { return cfg.Links.SimilarityThreshold },
	},
	{
		key: "links.max_backlinks", typ: kInt, env: "DIARIUM_MAX_BACKLINKS",
		apply:   func(cfg *Config, v any) { cfg.Links.MaxBacklinks = v.(int) },
		extract: func(cfg Config) any { return cfg.Links.MaxBacklinks },
	},
	{
		key: "links.max_tags", typ: kInt, env: "DIARIUM_MAX_TAGS",
		apply:   func(cfg *Config, v any) { cfg.Links.MaxTags = v.(int) },
		extract: func(cfg Config) any { return cfg.Links.MaxTags },
	},
	{
		key: "links.recent_entries", typ: kInt, env: "DIARIUM_RECENT_ENTRIES",
		apply:   func(cfg *Config, v any) { cfg.Links.RecentEntries = v.(int) },
		extract: func(cfg Config) any { return cfg.Links.RecentEntries },
	},
	{
		key: "links.synthesis_day", typ: kString, env: "DIARIUM_SYNTHESIS_DAY",
		apply:   func(cfg *Config, v any) { cfg.Links.SynthesisDay = v.(string) },
		extract: func(cfg Config) any { return cfg.Links.SynthesisDay },
	},
	{
		key: "trace.bucket_days", typ: kInt, env: "DIARIUM_TRACE_BUCKET_DAYS",
		apply:   func(cfg *Config, v any) { cfg.Trace.BucketDays = v.(int) },
		extract: func(cfg Config) any { return cfg.Trace.BucketDays },
	},
	{
		key: "ollama.base_url", typ: kString, env: "DIARIUM_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.model", typ: kString, env: "DIARIUM_OLLAMA_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Model },
	},
	{
		key: "ollama.timeout", typ: kString, env: "DIARIUM_OLLAMA_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Timeout },
	},
	{
		key: "ollama.temperature", typ: kFloat, env: "DIARIUM_OLLAMA_TEMPERATURE",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Temperature = v.(float64) },
		extract: func(cfg Config) any { return cfg.Ollama.Temperature },
	},
	{
		key: "ollama.num_predict", typ: kInt, env: "DIARIUM_OLLAMA_NUM_PREDICT",
		apply:   func(cfg *Config, v any) { cfg.Ollama.NumPredict = v.(int) },
		extract: func(cfg Config) any { return cfg.Ollama.NumPredict },
	},
	{
		key: "server.http_port", typ: kInt, env: "DIARIUM_HTTP_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.HTTPPort = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.HTTPPort },
	},
	{
		key: "log.level", typ: kString, env: "DIARIUM_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
