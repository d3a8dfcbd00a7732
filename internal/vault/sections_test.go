package vault

import (
	"strings"
	"testing"
	"time"
)

const sampleEntry = `## Reflection Prompts

*Building on recent entries*

**1. What's on your mind right now?**

**2. What felt good or difficult today?**

---

## Brain Dump

*Your thoughts, experiences, and observations...*
Work stress again today. The deadline keeps moving.

---

## Memory Links

**Related days:** [[2024-09-28]] • [[2024-09-30]]

**Topic tags:** #work-stress #deadline

*Connections derived from shared themes across entries.*
`

func TestFreeform_ExtractsBrainDump(t *testing.T) {
	got := Freeform(sampleEntry)
	want := "Work stress again today. The deadline keeps moving."

	if !strings.Contains(got, want) {
		t.Errorf("freeform missing user text:\n%s", got)
	}
	for _, leaked := range []string{"What's on your mind", "[[2024-09-28]]", "#work-stress", "observations..."} {
		if strings.Contains(got, leaked) {
			t.Errorf("generated content %q leaked into freeform:\n%s", leaked, got)
		}
	}
}

func TestFreeform_FallbackStripsGeneratedSections(t *testing.T) {
	doc := "Plain imported entry about gardening.\n\n## Memory Links\n\n**Related days:** [[2024-01-01]]\n"
	got := Freeform(doc)

	if !strings.Contains(got, "gardening") {
		t.Errorf("user text missing: %q", got)
	}
	if strings.Contains(got, "2024-01-01") {
		t.Errorf("links section leaked: %q", got)
	}
}

func TestFreeform_EmptyDocument(t *testing.T) {
	if got := Freeform(""); got != "" {
		t.Errorf("Freeform(\"\") = %q, want empty", got)
	}
}

func TestWithLinks_AppendsSection(t *testing.T) {
	doc := "## Brain Dump\n\nThinking about travel.\n"
	temporal := []time.Time{date("2024-09-28"), date("2024-09-30")}
	got := WithLinks(doc, temporal, []string{"#travel", "#planning"})

	for _, want := range []string{
		"## Memory Links",
		"[[2024-09-28]]",
		"[[2024-09-30]]",
		"#travel #planning",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWithLinks_ReplacesExistingSection(t *testing.T) {
	got := WithLinks(sampleEntry, []time.Time{date("2024-10-01")}, nil)

	if strings.Count(got, "## Memory Links") != 1 {
		t.Errorf("links section duplicated:\n%s", got)
	}
	if strings.Contains(got, "2024-09-28") {
		t.Errorf("stale link retained:\n%s", got)
	}
	if !strings.Contains(got, "[[2024-10-01]]") {
		t.Errorf("new link missing:\n%s", got)
	}
	// The user's own text must survive regeneration.
	if !strings.Contains(got, "Work stress again today") {
		t.Errorf("user text lost:\n%s", got)
	}
}

func TestWithLinks_NoConnections(t *testing.T) {
	got := WithLinks("## Brain Dump\n\nNew topic.\n", nil, nil)
	if !strings.Contains(got, "No connections found") {
		t.Errorf("empty-connection note missing:\n%s", got)
	}
}

// Regression for the feedback-loop guard: an entry with a prior Memory Links
// block must yield the same freeform text as the same entry without it.
func TestFreeform_PriorLinksDoNotPolluteAnalysis(t *testing.T) {
	plain := "## Brain Dump\n\nReading about gardens and compost.\n"
	annotated := WithLinks(plain, []time.Time{date("2024-01-02")}, []string{"#gardens"})

	if Freeform(plain) != Freeform(annotated) {
		t.Errorf("annotations changed the analyzable text:\nplain=%q\nannotated=%q",
			Freeform(plain), Freeform(annotated))
	}
}

func TestTemplate_Layout(t *testing.T) {
	got := Template([]string{"Question one?", "Question two?"}, false)

	for _, want := range []string{"## Reflection Prompts", "**1. Question one?**", "**2. Question two?**", "## Brain Dump"} {
		if !strings.Contains(got, want) {
			t.Errorf("template missing %q:\n%s", want, got)
		}
	}
	// A fresh template has an empty freeform section.
	if Freeform(got) != "" {
		t.Errorf("fresh template has non-empty freeform: %q", Freeform(got))
	}
}

func TestTemplate_WeeklyVariant(t *testing.T) {
	got := Template(FallbackPrompts(true), true)
	if !strings.Contains(got, "## Weekly Synthesis") {
		t.Errorf("weekly header missing:\n%s", got)
	}
	if len(FallbackPrompts(true)) != 5 || len(FallbackPrompts(false)) != 3 {
		t.Errorf("fallback prompt counts = (%d, %d), want (5, 3)",
			len(FallbackPrompts(true)), len(FallbackPrompts(false)))
	}
}
