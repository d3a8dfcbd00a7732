package trace

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

const reportDateLayout = "January 2, 2006"

// Render produces the memory-trace markdown document for a window. The
// narrative paragraph is optional (generated upstream by the language model
// from derived theme data only); when empty the report is purely structural.
func Render(w Window, src ThemeSource, entries []Member, now time.Time, narrative string) string {
	perEntry := make(map[string]themes.ThemeSet, len(entries))
	ordered := make([]Member, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })
	for _, m := range ordered {
		perEntry[m.Date.Format(vault.DateLayout)] = src.Themes(m.Date.Format(vault.DateLayout), m.Freeform)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Memory Trace\n*Generated: %s*\n\n", now.Format(vault.DateLayout))
	fmt.Fprintf(&sb, "Themes, patterns, and connections across %d entries from %s to %s.\n\n---\n\n",
		len(ordered), w.Start.Format(reportDateLayout), w.End.Format(reportDateLayout))

	writeTimeline(&sb, w)
	writeCoreThemes(&sb, w, perEntry, ordered)
	writeShifts(&sb, w)
	writePatterns(&sb, perEntry, ordered)
	writeMoments(&sb, perEntry, ordered)
	writeOverview(&sb, perEntry, ordered)

	if narrative != "" {
		sb.WriteString("## Reflections\n\n")
		sb.WriteString(strings.TrimSpace(narrative))
		sb.WriteString("\n\n---\n\n")
	}

	sb.WriteString("*This trace is a living document of your journey; regenerate it as entries accumulate.*\n")
	return sb.String()
}

func writeTimeline(sb *strings.Builder, w Window) {
	sb.WriteString("## Timeline Overview\n\n")
	for _, b := range w.Buckets {
		label := fmt.Sprintf("%s → %s", b.Start.Format(vault.DateLayout), b.End.AddDate(0, 0, -1).Format(vault.DateLayout))
		top := topTerms(b.Themes, 2)
		if len(b.Dates) == 0 {
			fmt.Fprintf(sb, "- **%s**: no entries\n", label)
			continue
		}
		fmt.Fprintf(sb, "- **%s** (%d entries): %s\n", label, len(b.Dates), strings.Join(top, ", "))
	}
	sb.WriteString("\n---\n\n")
}

func writeCoreThemes(sb *strings.Builder, w Window, perEntry map[string]themes.ThemeSet, ordered []Member) {
	sb.WriteString("## Core Themes\n\n")

	// Entry coverage per term: in how many entries does it appear.
	coverage := make(map[string]int)
	firstSeen := make(map[string]time.Time)
	lastSeen := make(map[string]time.Time)
	for _, m := range ordered {
		for _, term := range perEntry[m.Date.Format(vault.DateLayout)].Terms {
			coverage[term.Text]++
			if _, ok := firstSeen[term.Text]; !ok {
				firstSeen[term.Text] = m.Date
			}
			lastSeen[term.Text] = m.Date
		}
	}
	if len(coverage) == 0 {
		sb.WriteString("*No recurring themes identified across this window.*\n\n---\n\n")
		return
	}

	type ranked struct {
		text  string
		count int
	}
	all := make([]ranked, 0, len(coverage))
	for text, count := range coverage {
		all = append(all, ranked{text, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].text < all[j].text
	})
	if len(all) > 8 {
		all = all[:8]
	}

	for _, r := range all {
		pct := float64(r.count) / float64(len(ordered)) * 100
		fmt.Fprintf(sb, "### %s\n**Frequency:** %d entries (%.0f%% of period) | **Active:** %s → %s\n\n",
			titleTerm(r.text), r.count, pct,
			firstSeen[r.text].Format(reportDateLayout), lastSeen[r.text].Format(reportDateLayout))
	}
	sb.WriteString("---\n\n")
}

func writeShifts(sb *strings.Builder, w Window) {
	emerging, fading := w.Emerging(), w.Fading()
	if len(emerging) == 0 && len(fading) == 0 {
		return
	}
	sb.WriteString("## Theme Shifts\n\n")
	if len(emerging) > 0 {
		fmt.Fprintf(sb, "**Emerging:** %s\n\n", strings.Join(emerging, ", "))
	}
	if len(fading) > 0 {
		fmt.Fprintf(sb, "**Fading:** %s\n\n", strings.Join(fading, ", "))
	}
	sb.WriteString("---\n\n")
}

func writePatterns(sb *strings.Builder, perEntry map[string]themes.ThemeSet, ordered []Member) {
	// Co-occurrence: theme pairs that appear together within single entries.
	pairs := make(map[[2]string]int)
	dayThemes := make(map[time.Weekday]map[string]int)
	for _, m := range ordered {
		ts := perEntry[m.Date.Format(vault.DateLayout)]
		texts := ts.Texts()
		for i := 0; i < len(texts); i++ {
			for j := i + 1; j < len(texts); j++ {
				a, b := texts[i], texts[j]
				if b < a {
					a, b = b, a
				}
				pairs[[2]string{a, b}]++
			}
		}
		day := m.Date.Weekday()
		if dayThemes[day] == nil {
			dayThemes[day] = make(map[string]int)
		}
		for _, term := range ts.Terms {
			dayThemes[day][term.Text]++
		}
	}

	type pairCount struct {
		pair  [2]string
		count int
	}
	var recurring []pairCount
	for p, c := range pairs {
		if c >= 2 {
			recurring = append(recurring, pairCount{p, c})
		}
	}
	if len(recurring) == 0 && len(dayThemes) < 3 {
		return
	}

	sb.WriteString("## Recurring Patterns\n\n")
	if len(recurring) > 0 {
		sort.Slice(recurring, func(i, j int) bool {
			if recurring[i].count != recurring[j].count {
				return recurring[i].count > recurring[j].count
			}
			return recurring[i].pair[0] < recurring[j].pair[0]
		})
		if len(recurring) > 5 {
			recurring = recurring[:5]
		}
		sb.WriteString("### Theme Connections\n\n")
		for _, pc := range recurring {
			fmt.Fprintf(sb, "- **%s** ↔ **%s** (together in %d entries)\n",
				titleTerm(pc.pair[0]), titleTerm(pc.pair[1]), pc.count)
		}
		sb.WriteString("\n")
	}

	if len(dayThemes) >= 3 {
		sb.WriteString("### Weekly Rhythm\n\n")
		for d := time.Monday; ; d = (d + 1) % 7 {
			if counts, ok := dayThemes[d]; ok && len(counts) > 0 {
				top := themes.Extractor{MaxThemes: 2, MinFrequency: 1}.Rank(counts)
				fmt.Fprintf(sb, "- **%ss**: %s\n", d, strings.Join(top.Texts(), ", "))
			}
			if d == time.Sunday {
				break
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("---\n\n")
}

// writeMoments samples key entries across the window (endpoints plus
// quartiles) and pairs each with its top themes and a content snippet.
// Snippets are extracted locally and never leave the report.
func writeMoments(sb *strings.Builder, perEntry map[string]themes.ThemeSet, ordered []Member) {
	sb.WriteString("## Timeline of Significant Moments\n\n")

	key := ordered
	if len(ordered) > 5 {
		n := len(ordered)
		key = []Member{ordered[0], ordered[n/4], ordered[n/2], ordered[3*n/4], ordered[n-1]}
	}

	for _, m := range key {
		top := topTerms(perEntry[m.Date.Format(vault.DateLayout)], 3)
		desc := "Reflection"
		if len(top) > 0 {
			titled := make([]string, len(top))
			for i, t := range top {
				titled[i] = titleTerm(t)
			}
			desc = strings.Join(titled, ", ")
		}
		fmt.Fprintf(sb, "**%s** - %s\n", m.Date.Format(reportDateLayout), desc)
		fmt.Fprintf(sb, "  ↳ %s\n\n", snippet(m.Freeform, 80))
	}
	sb.WriteString("---\n\n")
}

var (
	snippetHeadings = regexp.MustCompile(`(?m)^#+ .*$`)
	snippetLinks    = regexp.MustCompile(`\[\[.*?\]\]`)
	snippetLabels   = regexp.MustCompile(`\*\*.*?\*\*:`)
	sentenceEnds    = regexp.MustCompile(`[.!?]+`)
)

// snippet pulls the first substantial sentence out of freeform content,
// stripped of markdown headings, wiki links, and bold labels.
func snippet(content string, maxLen int) string {
	clean := snippetHeadings.ReplaceAllString(content, "")
	clean = snippetLinks.ReplaceAllString(clean, "")
	clean = snippetLabels.ReplaceAllString(clean, "")

	for _, s := range sentenceEnds.Split(clean, -1) {
		s = strings.Join(strings.Fields(s), " ")
		if len(s) >= 20 {
			if len(s) > maxLen {
				return s[:maxLen] + "..."
			}
			return s
		}
	}

	clean = strings.TrimSpace(clean)
	if len(clean) > maxLen {
		return clean[:maxLen] + "..."
	}
	if clean == "" {
		return "..."
	}
	return clean
}

func writeOverview(sb *strings.Builder, perEntry map[string]themes.ThemeSet, ordered []Member) {
	sb.WriteString("## Entry Overview\n\n")
	overview := ordered
	if len(overview) > 15 {
		overview = overview[len(overview)-15:]
	}
	for _, m := range overview {
		top := topTerms(perEntry[m.Date.Format(vault.DateLayout)], 2)
		desc := "general reflection"
		if len(top) > 0 {
			desc = strings.Join(top, ", ")
		}
		fmt.Fprintf(sb, "- **[[%s]]**: %s\n", m.Date.Format(vault.DateLayout), desc)
	}
	if len(ordered) > 15 {
		fmt.Fprintf(sb, "\n*...and %d earlier entries*\n", len(ordered)-15)
	}
	sb.WriteString("\n---\n\n")
}

func topTerms(ts themes.ThemeSet, n int) []string {
	texts := ts.Texts()
	if len(texts) > n {
		texts = texts[:n]
	}
	return texts
}

func titleTerm(term string) string {
	words := strings.Fields(strings.ReplaceAll(term, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
