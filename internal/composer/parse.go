package composer

import (
	"regexp"
	"strings"
)

var (
	thinkBlock    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkTag      = regexp.MustCompile(`</?think>`)
	leadingNumber = regexp.MustCompile(`^[\d\-.)\s]+`)
	leadingBullet = regexp.MustCompile(`^[-*•\s]+`)
)

// stripThink removes chain-of-thought tags some models emit before the
// actual answer.
func stripThink(s string) string {
	s = thinkBlock.ReplaceAllString(s, "")
	return thinkTag.ReplaceAllString(s, "")
}

var numberedSkipMarkers = []string{
	"unresolved", "worth exploring", "here are", "**", "topics:", "questions:",
}

// parseNumbered pulls numbered (or dashed) question lines out of a model
// response, skipping commentary, and returns at most count of them.
func parseNumbered(response string, count int) []string {
	response = stripThink(response)

	var out []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasMarker(line, numberedSkipMarkers) {
			continue
		}
		if !startsNumbered(line) && !strings.HasPrefix(line, "-") {
			continue
		}
		clean := strings.TrimSpace(leadingNumber.ReplaceAllString(line, ""))
		// Accept questions, or statements long enough to not be noise.
		if clean != "" && (strings.HasSuffix(clean, "?") || len(clean) > 20) {
			out = append(out, clean)
		}
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}

var bulletSkipMarkers = []string{
	"action items:", "tasks:", "todos:", "here are",
}

// parseBullets pulls bulleted lines out of a model response.
func parseBullets(response string) []string {
	response = stripThink(response)

	var out []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasMarker(line, bulletSkipMarkers) {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "•") {
			continue
		}
		clean := strings.TrimSpace(leadingBullet.ReplaceAllString(line, ""))
		if len(clean) > 3 {
			out = append(out, clean)
		}
	}
	return out
}

func startsNumbered(line string) bool {
	if len(line) < 2 {
		return false
	}
	return line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')')
}

func hasMarker(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
