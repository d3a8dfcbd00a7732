package themes

// defaultStopwords is the built-in English stopword set. The set is a
// customization point: non-English journals should replace or extend it via
// the ExtraStopwords config option passed to NewTokenizer.
var defaultStopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "about", "after", "again", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "back", "be", "because", "been", "before",
		"being", "but", "by", "can", "come", "could", "day", "did", "do",
		"does", "doing", "done", "down", "during", "each", "even", "few",
		"first", "for", "from", "get", "give", "go", "going", "good", "got",
		"had", "has", "have", "having", "he", "her", "here", "him", "his",
		"how", "i", "if", "in", "into", "is", "it", "its", "just", "know",
		"like", "look", "make", "may", "me", "more", "most", "much", "my",
		"need", "new", "no", "not", "now", "of", "on", "one", "only", "or",
		"other", "our", "out", "over", "people", "really", "said", "same",
		"say", "see", "she", "should", "so", "some", "still", "such", "take",
		"than", "that", "the", "their", "them", "then", "there", "these",
		"they", "thing", "things", "think", "this", "those", "through",
		"time", "to", "today", "too", "two", "up", "us", "use", "very",
		"want", "was", "way", "we", "well", "went", "were", "what", "when",
		"where", "which", "while", "who", "will", "with", "would", "year",
		"you", "your",
	}
	for _, w := range words {
		defaultStopwords[w] = struct{}{}
	}
}
