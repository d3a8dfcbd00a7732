// Package journal orchestrates the vault, theme cache, backlink composer and
// language-model collaborators behind the operations the MCP and HTTP
// surfaces expose. All model-dependent features degrade to static output
// when generation fails; the core linking pipeline never blocks on a model.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quietloop/diarium/internal/backlink"
	"github.com/quietloop/diarium/internal/composer"
	"github.com/quietloop/diarium/internal/planner"
	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/trace"
	"github.com/quietloop/diarium/internal/vault"
)

// refreshWorkers bounds concurrent entry rewrites during a bulk refresh.
const refreshWorkers = 4

// Options wires a Service. Vault and Cache are required; Composer and
// Planner may be nil, disabling LLM prompts and todo persistence
// respectively.
type Options struct {
	Vault           *vault.Vault
	Cache           *themes.Cache
	Composer        *composer.Service
	Planner         *planner.Store
	PlannerDir      string
	Links           backlink.Config
	RecentEntries   int
	TraceBucketDays int
	Extractor       themes.Extractor
	Logger          *slog.Logger
	Now             func() time.Time
}

type Service struct {
	vault      *vault.Vault
	cache      *themes.Cache
	comp       *composer.Service
	todos      *planner.Store
	plannerDir string
	links      backlink.Config
	recent     int
	bucketDays int
	ext        themes.Extractor
	log        *slog.Logger
	now        func() time.Time
}

func NewService(o Options) *Service {
	if o.RecentEntries <= 0 {
		o.RecentEntries = 3
	}
	if o.TraceBucketDays <= 0 {
		o.TraceBucketDays = trace.DefaultBucketDays
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Service{
		vault:      o.Vault,
		cache:      o.Cache,
		comp:       o.Composer,
		todos:      o.Planner,
		plannerDir: o.PlannerDir,
		links:      o.Links,
		recent:     o.RecentEntries,
		bucketDays: o.TraceBucketDays,
		ext:        o.Extractor,
		log:        o.Logger,
		now:        o.Now,
	}
}

// List returns all entries, newest first.
func (s *Service) List() ([]vault.Entry, error) {
	return s.vault.List()
}

// Read returns the raw content of an entry.
func (s *Service) Read(date time.Time) (string, error) {
	return s.vault.Read(date)
}

// Themes returns the cached ThemeSet for an entry's freeform text.
func (s *Service) Themes(date time.Time) (themes.ThemeSet, error) {
	content, err := s.vault.Read(date)
	if err != nil {
		return themes.ThemeSet{}, err
	}
	return s.cache.Themes(date.Format(vault.DateLayout), vault.Freeform(content)), nil
}

// Template builds the markdown template for a new entry on date. Reflection
// prompts come from the language model when available and fall back to the
// static set otherwise. On the weekly synthesis day the prompt context is
// the trailing week and the template uses the synthesis header.
func (s *Service) Template(ctx context.Context, date time.Time, focus string) (string, error) {
	weekly := date.Weekday() == s.links.SynthesisDay

	recent, err := s.promptContext(date, weekly)
	if err != nil {
		return "", err
	}

	count := 3
	if weekly {
		count = 5
	}

	var prompts []string
	if s.comp != nil {
		prompts, err = s.comp.ReflectionPrompts(ctx, recent, focus, count, weekly)
		if err != nil {
			s.log.Warn("reflection prompt generation failed, using fallback prompts", "error", err)
			prompts = nil
		}
	}
	if len(prompts) == 0 {
		prompts = vault.FallbackPrompts(weekly)
	}

	return vault.Template(prompts, weekly), nil
}

// promptContext selects the prior entries fed into prompt generation, most
// recent first: the trailing 7 calendar days on the synthesis day, the last
// N entries otherwise. The target date itself is excluded.
func (s *Service) promptContext(date time.Time, weekly bool) ([]composer.ContextEntry, error) {
	entries, err := s.vault.List()
	if err != nil {
		return nil, err
	}

	weekStart := date.AddDate(0, 0, -7)
	var out []composer.ContextEntry
	for _, e := range entries {
		if !e.Date.Before(date) {
			continue
		}
		if weekly && e.Date.Before(weekStart) {
			continue
		}
		if !weekly && len(out) >= s.recent {
			break
		}
		content, err := s.vault.Read(e.Date)
		if err != nil {
			return nil, fmt.Errorf("reading context entry %s: %w", e.Date.Format(vault.DateLayout), err)
		}
		out = append(out, composer.ContextEntry{
			Date:    e.Date.Format(vault.DateLayout),
			Content: content,
		})
	}
	return out, nil
}

// Create writes a fresh templated entry for date and returns its path.
// Returns vault.ErrExists when the entry is already present.
func (s *Service) Create(ctx context.Context, date time.Time, focus string) (string, error) {
	if s.vault.Exists(date) {
		return "", fmt.Errorf("entry %s: %w", date.Format(vault.DateLayout), vault.ErrExists)
	}
	tpl, err := s.Template(ctx, date, focus)
	if err != nil {
		return "", err
	}
	if err := s.vault.Write(date, tpl); err != nil {
		return "", err
	}
	return s.vault.Path(date), nil
}

// UpdateBacklinks recomputes the Memory Links section of an entry from its
// current freeform text and rewrites the file. The returned set is what was
// written.
func (s *Service) UpdateBacklinks(date time.Time) (backlink.Set, error) {
	content, err := s.vault.Read(date)
	if err != nil {
		return backlink.Set{}, err
	}

	all, err := s.candidates()
	if err != nil {
		return backlink.Set{}, err
	}

	target := backlink.Candidate{Date: date, Freeform: vault.Freeform(content)}
	pool := backlink.SelectPool(target, all, s.links)
	set := backlink.Compose(s.cache, target, pool, s.links)

	if err := s.vault.Write(date, vault.WithLinks(content, set.Temporal, set.Tags)); err != nil {
		return backlink.Set{}, err
	}
	return set, nil
}

// Complete finalizes an entry after writing: backlinks are regenerated and
// the entry's themes are returned alongside for reporting.
func (s *Service) Complete(date time.Time) (backlink.Set, themes.ThemeSet, error) {
	set, err := s.UpdateBacklinks(date)
	if err != nil {
		return backlink.Set{}, themes.ThemeSet{}, err
	}
	ts, err := s.Themes(date)
	if err != nil {
		return backlink.Set{}, themes.ThemeSet{}, err
	}
	return set, ts, nil
}

// RefreshResult reports a bulk backlink refresh.
type RefreshResult struct {
	Updated int
	Failed  map[string]error
}

// RefreshRecent recomputes backlinks for every entry from the last days
// calendar days, a bounded number at a time. Candidate freeform text is
// snapshotted up front so concurrent rewrites don't feed each other
// half-written files. Per-entry failures are collected, not fatal.
func (s *Service) RefreshRecent(ctx context.Context, days int) (RefreshResult, error) {
	all, err := s.candidates()
	if err != nil {
		return RefreshResult{}, err
	}

	// Cutoff from the wall-clock date so an entry exactly days old still
	// counts regardless of time zone or time of day.
	now := s.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	var recent []backlink.Candidate
	for _, c := range all {
		if !c.Date.Before(cutoff) {
			recent = append(recent, c)
		}
	}
	if len(recent) == 0 {
		return RefreshResult{}, fmt.Errorf("no entries found in the last %d days", days)
	}

	contents := make(map[string]string, len(recent))
	for _, c := range recent {
		content, err := s.vault.Read(c.Date)
		if err != nil {
			return RefreshResult{}, err
		}
		contents[c.Date.Format(vault.DateLayout)] = content
	}

	result := RefreshResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshWorkers)
	for _, target := range recent {
		target := target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := target.Date.Format(vault.DateLayout)
			pool := backlink.SelectPool(target, all, s.links)
			set := backlink.Compose(s.cache, target, pool, s.links)
			updated := vault.WithLinks(contents[key], set.Temporal, set.Tags)

			mu.Lock()
			defer mu.Unlock()
			if err := s.vault.Write(target.Date, updated); err != nil {
				result.Failed[key] = err
				return nil
			}
			result.Updated++
			s.log.Debug("refreshed backlinks", "date", key, "links", len(set.Temporal))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// candidates loads every entry as a backlink candidate with its freeform
// text extracted.
func (s *Service) candidates() ([]backlink.Candidate, error) {
	entries, err := s.vault.List()
	if err != nil {
		return nil, err
	}
	out := make([]backlink.Candidate, 0, len(entries))
	for _, e := range entries {
		content, err := s.vault.Read(e.Date)
		if err != nil {
			return nil, fmt.Errorf("reading entry %s: %w", e.Date.Format(vault.DateLayout), err)
		}
		out = append(out, backlink.Candidate{Date: e.Date, Freeform: vault.Freeform(content)})
	}
	return out, nil
}
