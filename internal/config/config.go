package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Vault  VaultConfig  `toml:"vault"`
	Themes ThemesConfig `toml:"themes"`
	Links  LinksConfig  `toml:"links"`
	Trace  TraceConfig  `toml:"trace"`
	Ollama OllamaConfig `toml:"ollama"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

type VaultConfig struct {
	Dir        string `toml:"dir"`
	PlannerDir string `toml:"planner_dir"`
}

type ThemesConfig struct {
	MaxThemes      int      `toml:"max_themes"`
	MinFrequency   int      `toml:"min_frequency"`
	ExtraStopwords []string `toml:"extra_stopwords"`
}

type LinksConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MaxBacklinks        int     `toml:"max_backlinks"`
	MaxTags             int     `toml:"max_tags"`
	RecentEntries       int     `toml:"recent_entries"`
	SynthesisDay        string  `toml:"synthesis_day"`
}

type TraceConfig struct {
	BucketDays int `toml:"bucket_days"`
}

type OllamaConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float64 `toml:"temperature"`
	NumPredict  int     `toml:"num_predict"`
}

type ServerConfig struct {
	// HTTPPort enables the read-only HTTP API when non-zero.
	HTTPPort int `toml:"http_port"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "diarium-data"
		}
	}
	return filepath.Join(dir, "diarium")
}

// DefaultPath returns the config file location used when no explicit
// path is given: $XDG_CONFIG_HOME/diarium/config.toml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "diarium", "config.toml")
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Vault: VaultConfig{
			Dir:        filepath.Join(dataDir, "vault"),
			PlannerDir: filepath.Join(dataDir, "planner"),
		},
		Themes: ThemesConfig{
			MaxThemes:    8,
			MinFrequency: 2,
		},
		Links: LinksConfig{
			SimilarityThreshold: 0.08,
			MaxBacklinks:        6,
			MaxTags:             5,
			RecentEntries:       3,
			SynthesisDay:        "sunday",
		},
		Trace: TraceConfig{
			BucketDays: 7,
		},
		Ollama: OllamaConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "mistral-nemo",
			Timeout:     "120s",
			Temperature: 0.7,
			NumPredict:  500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the TOML file at path (DefaultPath when
// empty; a missing file is not an error), then applies DIARIUM_* environment
// overrides on top. Every field has a default, so callers always receive a
// fully populated Config.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Themes.MaxThemes < 1 {
		return fmt.Errorf("themes.max_themes must be at least 1, got %d", c.Themes.MaxThemes)
	}
	if c.Themes.MinFrequency < 1 {
		return fmt.Errorf("themes.min_frequency must be at least 1, got %d", c.Themes.MinFrequency)
	}
	// Strictly positive: the backlink composer treats a non-positive
	// threshold as unset and would silently restore the default.
	if c.Links.SimilarityThreshold <= 0 || c.Links.SimilarityThreshold >= 1 {
		return fmt.Errorf("links.similarity_threshold must be in (0, 1), got %v", c.Links.SimilarityThreshold)
	}
	if c.Links.MaxBacklinks < 0 || c.Links.MaxTags < 0 || c.Links.RecentEntries < 0 {
		return fmt.Errorf("links limits must not be negative")
	}
	if _, err := parseWeekday(c.Links.SynthesisDay); err != nil {
		return err
	}
	if c.Trace.BucketDays < 1 {
		return fmt.Errorf("trace.bucket_days must be at least 1, got %d", c.Trace.BucketDays)
	}
	if _, err := time.ParseDuration(c.Ollama.Timeout); err != nil {
		return fmt.Errorf("ollama.timeout: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

// SynthesisWeekday returns the parsed weekly-synthesis day. Validation in
// Load guarantees the name parses; an unvalidated value falls back to Sunday.
func (c LinksConfig) SynthesisWeekday() time.Weekday {
	d, err := parseWeekday(c.SynthesisDay)
	if err != nil {
		return time.Sunday
	}
	return d
}

// TimeoutDuration returns the parsed request timeout, defaulting to two
// minutes when the value is unset or malformed.
func (c OllamaConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unrecognized weekday %q", name)
}
