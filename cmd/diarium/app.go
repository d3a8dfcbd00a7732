package main

import (
	"context"
	"fmt"
	"time"

	"github.com/quietloop/diarium/internal/backlink"
	"github.com/quietloop/diarium/internal/composer"
	"github.com/quietloop/diarium/internal/config"
	"github.com/quietloop/diarium/internal/journal"
	"github.com/quietloop/diarium/internal/ollama"
	"github.com/quietloop/diarium/internal/planner"
	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

// app bundles the wired service layer for a single command invocation.
type app struct {
	cfg   config.Config
	vault *vault.Vault
	store *planner.Store
	model *ollama.Client
	svc   *journal.Service
}

// modelGen adapts the Ollama client to the composer's Generator interface,
// pinning the configured model and sampling options.
type modelGen struct {
	client *ollama.Client
	model  string
	opts   ollama.Options
}

func (g modelGen) Generate(ctx context.Context, prompt string) (string, error) {
	opts := g.opts
	return g.client.Generate(ctx, g.model, prompt, &opts)
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	v, err := vault.Open(cfg.Vault.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	store, err := planner.Open(cfg.Vault.PlannerDir)
	if err != nil {
		return nil, fmt.Errorf("opening planner store: %w", err)
	}

	client := ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.TimeoutDuration())
	comp := composer.NewService(modelGen{
		client: client,
		model:  cfg.Ollama.Model,
		opts: ollama.Options{
			Temperature: cfg.Ollama.Temperature,
			NumPredict:  cfg.Ollama.NumPredict,
		},
	})

	ext := themes.NewExtractor(cfg.Themes.MaxThemes, cfg.Themes.MinFrequency)
	svc := journal.NewService(journal.Options{
		Vault:      v,
		Cache:      themes.NewCache(themes.NewTokenizer(cfg.Themes.ExtraStopwords), ext),
		Composer:   comp,
		Planner:    store,
		PlannerDir: cfg.Vault.PlannerDir,
		Links: backlink.Config{
			Threshold:    cfg.Links.SimilarityThreshold,
			MaxLinks:     cfg.Links.MaxBacklinks,
			MaxTags:      cfg.Links.MaxTags,
			SynthesisDay: cfg.Links.SynthesisWeekday(),
		},
		RecentEntries:   cfg.Links.RecentEntries,
		TraceBucketDays: cfg.Trace.BucketDays,
		Extractor:       ext,
	})

	return &app{cfg: cfg, vault: v, store: store, model: client, svc: svc}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// parseDateArg resolves an optional positional date argument, defaulting
// to today.
func parseDateArg(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := vault.ParseDate(args[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
	}
	return d, nil
}
