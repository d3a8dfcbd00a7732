package composer

import (
	"fmt"
	"strings"
)

func reflectionPrompt(recentText, focus string, count int, weekly bool) string {
	var focusInstruction string
	if focus != "" {
		focusInstruction = fmt.Sprintf("\n\nFocus specifically on %s for all questions.", focus)
	}

	var weeklyInstruction string
	if weekly {
		weeklyInstruction = "\n\nThis is a weekly reflection - synthesize the past week and set intentions for the week ahead."
	}

	var format strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&format, "%d. [question]\n", i)
	}

	return fmt.Sprintf(`You are a thoughtful journaling coach who helps people explore their ideas deeper. Generate questions based ONLY on what the person actually wrote - never assume feelings, concerns, or problems they didn't mention.

Read through these journal entries and generate %d thoughtful reflection questions. Pay special attention to the MOST RECENT entry.%s%s

Journal entries (most recent first):
%s

Your task:
- Focus ONLY on what they actually wrote - do NOT make assumptions or infer feelings they didn't express
- Reference specific things they mentioned, not imagined concerns
- Identify concrete topics they discussed: ideas, observations, plans, questions
- Generate %d questions about DIFFERENT topics from their writing
- Write questions that EXPAND on what they said, not assume problems
- Use "you" and "your" - speak directly to them
- Each question should explore a different topic they mentioned

CRITICAL: Only ask about things they actually wrote about. Do not invent concerns or feelings.

Format as numbered questions ONLY (no commentary, no summaries, just questions):
%s`, count, focusInstruction, weeklyInstruction, recentText, count, format.String())
}

func todoPrompt(freeform string) string {
	return fmt.Sprintf(`You are a helpful assistant that extracts action items from journal entries. Be thorough but focused on actionable tasks.

Analyze this journal entry and extract ALL action items, tasks, and todos mentioned.

Journal entry:
%s

Your task:
- Identify any tasks, action items, or things the person needs/wants to do
- Include both explicit todos ("I need to...", "I should...") and implicit ones (unfinished work, intentions, goals)
- Be specific and actionable
- Extract the person's own words where possible
- If there are no clear action items, return "No action items found"

Format as a simple bulleted list with one action per line:
- [Action item 1]
- [Action item 2]

IMPORTANT: Only output the bulleted list, no other text or commentary.`, freeform)
}

func narrativePrompt(digest string) string {
	return fmt.Sprintf(`You are a reflective writing companion. Below is a summary of themes from someone's journal over a period of time. Themes are listed with how often they appeared and when.

%s

Write one short paragraph (3-5 sentences) reflecting on this period: what occupied their attention, how it shifted, and what seems to be emerging. Speak directly to them using "you" and "your". Ground every observation in the listed themes - do not invent events or feelings. Output only the paragraph, no headers or commentary.`, digest)
}
