package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quietloop/diarium/internal/trace"
	"github.com/quietloop/diarium/internal/vault"
)

// Trace renders the memory-trace report over the trailing days calendar
// days. The narrative paragraph is generated from a theme digest only —
// raw entry text never reaches the model here — and is dropped when
// generation fails.
func (s *Service) Trace(ctx context.Context, days int) (string, error) {
	entries, err := s.vault.List()
	if err != nil {
		return "", err
	}

	// The window end is the wall-clock date, not UTC truncation: in zones
	// ahead of UTC the latter lands on yesterday's date every evening and
	// would drop today's entry from the trace.
	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	var members []trace.Member
	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		content, err := s.vault.Read(e.Date)
		if err != nil {
			return "", fmt.Errorf("reading entry %s: %w", e.Date.Format(vault.DateLayout), err)
		}
		members = append(members, trace.Member{Date: e.Date, Freeform: vault.Freeform(content)})
	}
	if len(members) == 0 {
		return "", fmt.Errorf("no entries found in the last %d days", days)
	}

	w := trace.Aggregate(s.cache, members, start, end, s.bucketDays, s.ext)

	var narrative string
	if s.comp != nil {
		narrative, err = s.comp.Narrative(ctx, themeDigest(w))
		if err != nil {
			s.log.Warn("trace narrative generation failed, rendering without it", "error", err)
			narrative = ""
		}
	}

	return trace.Render(w, s.cache, members, s.now(), narrative), nil
}

// themeDigest flattens a window into the derived-data summary the narrative
// prompt consumes: per-bucket top themes plus emerging/fading shifts.
func themeDigest(w trace.Window) string {
	var sb strings.Builder
	for _, b := range w.Buckets {
		if len(b.Dates) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "Week of %s: %s (%d entries)\n",
			b.Start.Format(vault.DateLayout), strings.Join(b.Themes.Texts(), ", "), len(b.Dates))
	}
	if emerging := w.Emerging(); len(emerging) > 0 {
		fmt.Fprintf(&sb, "Emerging themes: %s\n", strings.Join(emerging, ", "))
	}
	if fading := w.Fading(); len(fading) > 0 {
		fmt.Fprintf(&sb, "Fading themes: %s\n", strings.Join(fading, ", "))
	}
	return sb.String()
}
