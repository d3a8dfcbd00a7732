package backlink

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

// fakeSource maps ISO dates to fixed theme sets, bypassing tokenization.
type fakeSource struct {
	sets map[string]themes.ThemeSet
}

func (f fakeSource) Themes(date string, _ string) themes.ThemeSet {
	return f.sets[date]
}

func set(texts ...string) themes.ThemeSet {
	ts := themes.ThemeSet{Terms: make([]themes.Term, len(texts))}
	for i, t := range texts {
		ts.Terms[i] = themes.Term{Text: t, Count: 1}
	}
	return ts
}

func day(s string) time.Time {
	d, err := time.Parse(vault.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dates(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format(vault.DateLayout)
	}
	return out
}

func TestCompose_LinksSimilarEntries(t *testing.T) {
	src := fakeSource{sets: map[string]themes.ThemeSet{
		"2024-10-05": set("work", "stress", "deadline"),
		"2024-10-01": set("work", "promotion", "stress"), // jaccard 0.5
		"2024-10-02": set("finance", "taxes"),            // jaccard 0
	}}
	target := Candidate{Date: day("2024-10-05")}
	pool := []Candidate{{Date: day("2024-10-01")}, {Date: day("2024-10-02")}}

	got := Compose(src, target, pool, Config{})

	if want := []string{"2024-10-01"}; !reflect.DeepEqual(dates(got.Temporal), want) {
		t.Errorf("temporal = %v, want %v", dates(got.Temporal), want)
	}
}

func TestCompose_LinkingIsMutual(t *testing.T) {
	src := fakeSource{sets: map[string]themes.ThemeSet{
		"2024-10-05": set("work", "stress", "deadline"),
		"2024-10-01": set("work", "promotion", "stress"),
	}}
	x := Candidate{Date: day("2024-10-05")}
	y := Candidate{Date: day("2024-10-01")}

	fromX := Compose(src, x, []Candidate{y}, Config{})
	fromY := Compose(src, y, []Candidate{x}, Config{})

	if len(fromX.Temporal) != 1 || len(fromY.Temporal) != 1 {
		t.Errorf("links not mutual: X->%v Y->%v", dates(fromX.Temporal), dates(fromY.Temporal))
	}
}

// The threshold is an exclusive lower bound: exactly 0.08 must not link,
// strictly above must.
func TestCompose_ThresholdBoundary(t *testing.T) {
	// target: s1, s2, s3 + 10 fillers (13 terms)
	target := append([]string{"s1", "s2", "s3"}, fill("a", 10)...)
	// at-threshold candidate shares s1, s2: intersection 2, union 25 -> 0.08
	at := append([]string{"s1", "s2"}, fill("b", 12)...)
	// above-threshold candidate shares s1, s2, s3: intersection 3, union 24 -> 0.125
	above := append([]string{"s1", "s2", "s3"}, fill("c", 11)...)

	if got := themes.Similarity(set(target...), set(at...)); got != 0.08 {
		t.Fatalf("fixture similarity = %g, want exactly 0.08", got)
	}

	src := fakeSource{sets: map[string]themes.ThemeSet{
		"2024-10-05": set(target...),
		"2024-10-01": set(at...),
		"2024-10-02": set(above...),
	}}
	got := Compose(src, Candidate{Date: day("2024-10-05")},
		[]Candidate{{Date: day("2024-10-01")}, {Date: day("2024-10-02")}}, Config{})

	if want := []string{"2024-10-02"}; !reflect.DeepEqual(dates(got.Temporal), want) {
		t.Errorf("temporal = %v, want %v (at-threshold pair must not link)", dates(got.Temporal), want)
	}
}

func fill(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%02d", prefix, i)
	}
	return out
}

func TestCompose_TemporalOrderedByDateAscending(t *testing.T) {
	sets := map[string]themes.ThemeSet{"2024-10-10": set("work", "stress")}
	var pool []Candidate
	for _, d := range []string{"2024-10-07", "2024-10-02", "2024-10-05"} {
		sets[d] = set("work", "stress", "extra-"+d)
		pool = append(pool, Candidate{Date: day(d)})
	}

	got := Compose(fakeSource{sets: sets}, Candidate{Date: day("2024-10-10")}, pool, Config{})

	want := []string{"2024-10-02", "2024-10-05", "2024-10-07"}
	if !reflect.DeepEqual(dates(got.Temporal), want) {
		t.Errorf("temporal = %v, want %v", dates(got.Temporal), want)
	}
}

func TestCompose_CapsAtMaxLinks(t *testing.T) {
	sets := map[string]themes.ThemeSet{"2024-10-20": set("work", "stress")}
	var pool []Candidate
	// Nine candidates, descending similarity as the pool grows noisier.
	for i := 0; i < 9; i++ {
		d := fmt.Sprintf("2024-10-%02d", i+1)
		terms := append([]string{"work", "stress"}, fill(fmt.Sprintf("n%d", i), i)...)
		sets[d] = set(terms...)
		pool = append(pool, Candidate{Date: day(d)})
	}

	got := Compose(fakeSource{sets: sets}, Candidate{Date: day("2024-10-20")}, pool, Config{MaxLinks: 3})

	if len(got.Temporal) != 3 {
		t.Fatalf("len(temporal) = %d, want 3", len(got.Temporal))
	}
	// Highest-scoring candidates are the ones with the fewest extra terms.
	want := []string{"2024-10-01", "2024-10-02", "2024-10-03"}
	if !reflect.DeepEqual(dates(got.Temporal), want) {
		t.Errorf("temporal = %v, want %v", dates(got.Temporal), want)
	}
}

func TestCompose_EmptyTargetNeverLinks(t *testing.T) {
	src := fakeSource{sets: map[string]themes.ThemeSet{
		"2024-10-01": set("work"),
	}}
	got := Compose(src, Candidate{Date: day("2024-10-05")},
		[]Candidate{{Date: day("2024-10-01")}}, Config{})

	if len(got.Temporal) != 0 || len(got.Tags) != 0 {
		t.Errorf("empty target produced links: %+v", got)
	}
}

func TestCompose_TagsFromSharedTerms(t *testing.T) {
	src := fakeSource{sets: map[string]themes.ThemeSet{
		"2024-10-05": {Terms: []themes.Term{
			{Text: "work stress", Count: 3},
			{Text: "deadline", Count: 2},
			{Text: "sleep", Count: 2},
		}},
		"2024-10-01": {Terms: []themes.Term{
			{Text: "work stress", Count: 2},
			{Text: "deadline", Count: 1},
			{Text: "promotion", Count: 4},
		}},
	}}
	got := Compose(src, Candidate{Date: day("2024-10-05")},
		[]Candidate{{Date: day("2024-10-01")}}, Config{})

	// promotion is not in the target set, sleep is not shared; both excluded.
	want := []string{"#work-stress", "#deadline"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("tags = %v, want %v", got.Tags, want)
	}
}

func TestSelectPool_ExcludesTargetAndBounds(t *testing.T) {
	target := Candidate{Date: day("2024-10-10")}
	var all []Candidate
	for _, d := range []string{"2024-10-10", "2024-10-09", "2024-10-08", "2024-10-07"} {
		all = append(all, Candidate{Date: day(d)})
	}

	got := SelectPool(target, all, Config{PoolSize: 2, SynthesisDay: time.Sunday})

	want := []string{"2024-10-09", "2024-10-08"}
	gotDates := make([]string, len(got))
	for i, c := range got {
		gotDates[i] = c.Date.Format(vault.DateLayout)
	}
	if !reflect.DeepEqual(gotDates, want) {
		t.Errorf("pool = %v, want %v", gotDates, want)
	}
}

func TestSelectPool_SynthesisDayUsesTrailingWeek(t *testing.T) {
	// 2024-10-06 is a Sunday.
	target := Candidate{Date: day("2024-10-06")}
	var all []Candidate
	for _, d := range []string{
		"2024-10-05", "2024-10-03", "2024-09-30", // inside trailing 7 days
		"2024-09-28", "2024-09-01", // outside
		"2024-10-06", // target itself
	} {
		all = append(all, Candidate{Date: day(d)})
	}

	got := SelectPool(target, all, Config{PoolSize: 2, SynthesisDay: time.Sunday})

	gotDates := make([]string, len(got))
	for i, c := range got {
		gotDates[i] = c.Date.Format(vault.DateLayout)
	}
	// Trailing-week pool ignores PoolSize.
	want := []string{"2024-10-05", "2024-10-03", "2024-09-30"}
	if !reflect.DeepEqual(gotDates, want) {
		t.Errorf("pool = %v, want %v", gotDates, want)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"work stress":   "#work-stress",
		"Deadline":      "#deadline",
		"self-care":     "#self-care",
		"  spaced out ": "#spaced-out",
		"!!!":           "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
