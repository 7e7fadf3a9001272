package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"todoai-api/internal/common"
)

// listMarker matches bullets and numbering such as "-", "3.", "4)" or "[1]"
// at the start of a line
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|\[\d+\])\s*`)

// ParseTasks turns raw model text into task suggestions. It never fails and
// never returns an empty slice:
//  1. the first JSON array in the text whose elements have the task shape
//  2. otherwise one task per non-blank line, at most MaxLineSplitTasks
//  3. otherwise FallbackTasks
//
// Arrays without a usable element, such as "[1]" citations, do not stop
// line splitting.
func ParseTasks(raw string) []TaskSuggestion {
	if strings.TrimSpace(raw) == "" {
		return FallbackTasks()
	}

	if tasks := parseJSONArray(raw); len(tasks) > 0 {
		return tasks
	}
	if tasks := splitLines(raw); len(tasks) > 0 {
		return tasks
	}
	return FallbackTasks()
}

// parseJSONArray tries every '[' in order and returns the suggestions of the
// first array that yields at least one
func parseJSONArray(raw string) []TaskSuggestion {
	for start := strings.IndexByte(raw, '['); start != -1; {
		if end := matchBracket(raw, start); end != -1 {
			var elements []any
			if err := json.Unmarshal([]byte(raw[start:end+1]), &elements); err == nil {
				if tasks := coerceElements(elements); len(tasks) > 0 {
					return tasks
				}
			}
		}
		next := strings.IndexByte(raw[start+1:], '[')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return nil
}

// matchBracket returns the index of the ']' closing the '[' at start, or -1.
// Brackets inside JSON strings are ignored.
func matchBracket(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func coerceElements(elements []any) []TaskSuggestion {
	tasks := make([]TaskSuggestion, 0, len(elements))
	for _, el := range elements {
		if err := validateElement(el); err != nil {
			continue
		}
		obj := el.(map[string]any)

		title := truncateRunes(strings.TrimSpace(stringField(obj, "title")), MaxTitleLength)
		if title == "" {
			continue
		}
		tasks = append(tasks, TaskSuggestion{
			Title:       title,
			Description: strings.TrimSpace(stringField(obj, "description")),
			Priority:    common.ParsePriority(stringField(obj, "priority")),
			Category:    strings.TrimSpace(stringField(obj, "category")),
		})
	}
	return tasks
}

func splitLines(raw string) []TaskSuggestion {
	var tasks []TaskSuggestion
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		tasks = append(tasks, TaskSuggestion{
			Title:    truncateRunes(line, MaxTitleLength),
			Priority: common.PriorityMedium,
			Category: GeneratedCategory,
		})
		if len(tasks) == MaxLineSplitTasks {
			break
		}
	}
	return tasks
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
