package vault

import (
	"fmt"
	"strings"
)

// Template builds a fresh entry document: numbered reflection prompts
// followed by an empty Brain Dump section. The weekly variant (the
// synthesis-day entry) carries its own header text.
func Template(prompts []string, weekly bool) string {
	var sb strings.Builder

	if weekly {
		sb.WriteString("## Weekly Synthesis\n\n")
		sb.WriteString("*A deeper look at the past week and intentions for the week ahead*\n\n")
	} else {
		sb.WriteString("## Reflection Prompts\n\n")
		sb.WriteString("*Building on recent entries*\n\n")
	}

	for i, p := range prompts {
		fmt.Fprintf(&sb, "**%d. %s**\n\n\n", i+1, p)
	}

	sb.WriteString("---\n\n## Brain Dump\n\n")
	sb.WriteString(brainDumpPlaceholder)
	sb.WriteString("\n")
	return sb.String()
}

// FallbackPrompts are used when the language model is unavailable; entry
// creation must not depend on it.
func FallbackPrompts(weekly bool) []string {
	if weekly {
		return []string{
			"What went well this week, and what felt hard?",
			"What choices did you make that you want to remember?",
			"What do you want to do differently next week?",
			"What's one thing you learned about yourself?",
			"What are you looking forward to or worried about?",
		}
	}
	return []string{
		"What's on your mind right now?",
		"What choices are you thinking about?",
		"What felt good or difficult today?",
	}
}
