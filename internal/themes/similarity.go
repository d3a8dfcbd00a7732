package themes

// Similarity computes the Jaccard index over the term sets of a and b:
// |intersection| / |union|, ignoring per-term frequency. The result is
// commutative and bounded to [0, 1]; if either set is empty the score is 0 so
// emptiness never produces a false-positive link. Neither input is mutated.
func Similarity(a, b ThemeSet) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}

	setA := make(map[string]struct{}, len(a.Terms))
	for _, t := range a.Terms {
		setA[t.Text] = struct{}{}
	}

	union := len(setA)
	intersection := 0
	seenB := make(map[string]struct{}, len(b.Terms))
	for _, t := range b.Terms {
		if _, dup := seenB[t.Text]; dup {
			continue
		}
		seenB[t.Text] = struct{}{}
		if _, ok := setA[t.Text]; ok {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}
