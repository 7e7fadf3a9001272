package llm

import (
	"strings"
)

const taskGenerationTemplate = `You are a task management assistant. Given a high-level goal or objective, break it down into specific, actionable tasks.

The output must be a JSON array that conforms to the JSON schema below.

{format_instructions}

Goal: {goal}

Return ONLY the JSON array of tasks as specified in the format instructions.`

const titleTemplate = `Write a short title for a to-do list that helps achieve the goal below.
Use at most 60 characters. Reply with the title only, without quotes or punctuation at the end.

Goal: {goal}`

const descriptionTemplate = `Write a one or two sentence description for a to-do list created for the goal below.
Use at most 200 characters. Reply with the description only.

Goal: {goal}`

// BuildTaskPrompt embeds the output schema and the goal
func BuildTaskPrompt(goal string) string {
	return strings.NewReplacer(
		"{format_instructions}", FormatInstructions(),
		"{goal}", strings.TrimSpace(goal),
	).Replace(taskGenerationTemplate)
}

func BuildTitlePrompt(goal string) string {
	return strings.ReplaceAll(titleTemplate, "{goal}", strings.TrimSpace(goal))
}

func BuildDescriptionPrompt(goal string) string {
	return strings.ReplaceAll(descriptionTemplate, "{goal}", strings.TrimSpace(goal))
}

// cleanTitle keeps the first non-blank line without surrounding quotes
func cleanTitle(raw string) string {
	var line string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.TrimPrefix(line, "Title:")
	line = strings.TrimRight(strings.TrimSpace(line), ".")
	line = strings.Trim(line, "\"'`*")
	line = strings.TrimRight(strings.TrimSpace(line), ".")
	return strings.TrimSpace(truncateRunes(line, MaxListTitleLength))
}

func cleanDescription(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "Description:")
	text = strings.Trim(strings.TrimSpace(text), "\"'`")
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(truncateRunes(text, MaxListDescriptionLen))
}
