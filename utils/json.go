package utils

import (
	"fmt"
	"strings"
)

// ExtractJSONBlock pulls the first JSON object out of free-form model output.
// Models regularly wrap the object in a ```json fence or surround it with
// commentary, so the whole output is never assumed to be valid JSON.
func ExtractJSONBlock(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if fenced, ok := extractFenced(text); ok {
		text = fenced
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in model output")
}

func extractFenced(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := text[open+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		// skip the language tag on the fence line, e.g. ```json
		rest = rest[nl+1:]
	}
	closeIdx := strings.Index(rest, "```")
	if closeIdx < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closeIdx]), true
}
