package vault

import (
	"strings"
	"time"
)

// Section headings recognized in entry documents. Matching is by substring,
// case-insensitive, so decorated variants ("## 🔗 Memory Links") written by
// other tools still parse.
const (
	brainDumpHeading = "brain dump"
	linksHeading     = "memory links"
	promptsHeading   = "reflection prompts"
	weeklyHeading    = "weekly synthesis"
)

const brainDumpPlaceholder = "*Your thoughts, experiences, and observations...*"

// Freeform extracts the analyzable portion of an entry: the Brain Dump
// section body, with the template placeholder removed. Generated prompts and
// the Memory Links section are excluded so re-running analysis never ingests
// the system's own previous output as user content.
//
// When the document has no Brain Dump heading (entries imported from
// elsewhere), the fallback is the full document minus any generated sections.
func Freeform(content string) string {
	lines := strings.Split(content, "\n")

	start := headingIndex(lines, 0, brainDumpHeading)
	if start >= 0 {
		end := nextHeading(lines, start+1)
		body := strings.Join(lines[start+1:end], "\n")
		body = strings.ReplaceAll(body, brainDumpPlaceholder, "")
		return trimRules(body)
	}

	var kept []string
	for i := 0; i < len(lines); {
		if matchesHeading(lines[i], promptsHeading) ||
			matchesHeading(lines[i], weeklyHeading) ||
			matchesHeading(lines[i], linksHeading) {
			i = nextHeading(lines, i+1)
			continue
		}
		kept = append(kept, lines[i])
		i++
	}
	return trimRules(strings.Join(kept, "\n"))
}

// trimRules trims whitespace plus any trailing horizontal rules, which are
// section separators rather than user content.
func trimRules(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, "\n---") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "---"))
	}
	if s == "---" {
		return ""
	}
	return s
}

// WithLinks returns the document with its Memory Links section replaced
// wholesale by one generated from the given temporal links and topic tags.
// Regenerating the whole section keeps annotations consistent with current
// thresholds instead of accreting stale links.
func WithLinks(content string, temporal []time.Time, tags []string) string {
	base := removeLinksSection(content)

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\n---\n\n## Memory Links\n\n")

	if len(temporal) > 0 {
		refs := make([]string, len(temporal))
		for i, d := range temporal {
			refs[i] = "[[" + d.Format(DateLayout) + "]]"
		}
		sb.WriteString("**Related days:** " + strings.Join(refs, " • ") + "\n\n")
	}
	if len(tags) > 0 {
		sb.WriteString("**Topic tags:** " + strings.Join(tags, " ") + "\n\n")
	}

	if len(temporal) > 0 || len(tags) > 0 {
		sb.WriteString("*Connections derived from shared themes across entries.*")
	} else {
		sb.WriteString("*No connections found — this entry covers new ground.*")
	}
	sb.WriteString("\n")
	return sb.String()
}

// removeLinksSection drops the Memory Links section (and its separator rule)
// from the document.
func removeLinksSection(content string) string {
	lines := strings.Split(content, "\n")

	start := headingIndex(lines, 0, linksHeading)
	if start < 0 {
		return strings.TrimRight(content, "\n")
	}
	end := nextHeading(lines, start+1)

	kept := append([]string{}, lines[:start]...)
	kept = append(kept, lines[end:]...)

	out := strings.TrimRight(strings.Join(kept, "\n"), "\n \t")
	if strings.HasSuffix(out, "\n---") {
		out = strings.TrimRight(strings.TrimSuffix(out, "---"), "\n \t")
	}
	return out
}

func matchesHeading(line, name string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "##") {
		return false
	}
	return strings.Contains(strings.ToLower(trimmed), name)
}

func headingIndex(lines []string, from int, name string) int {
	for i := from; i < len(lines); i++ {
		if matchesHeading(lines[i], name) {
			return i
		}
	}
	return -1
}

// nextHeading returns the index of the next markdown heading at or after
// from, or len(lines).
func nextHeading(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "##") {
			return i
		}
	}
	return len(lines)
}
