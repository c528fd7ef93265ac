package ai

import (
	"strings"

	apperrors "kalaghar/internal/domain/errors"
)

// ExtractJSON pulls a JSON object out of a model response. It prefers a
// fenced ```json block; otherwise it takes the first balanced {...} span.
// Returns ErrAIInvalidFormat when neither is present.
func ExtractJSON(text string) (string, error) {
	if fenced, ok := extractFenced(text); ok {
		return fenced, nil
	}
	if span, ok := extractBalanced(text); ok {
		return span, nil
	}

	return "", apperrors.ErrAIInvalidFormat
}

func extractFenced(text string) (string, bool) {
	start := strings.Index(text, "```json")
	if start < 0 {
		return "", false
	}
	rest := text[start+len("```json"):]

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}

	body := strings.TrimSpace(rest[:end])
	if body == "" {
		return "", false
	}

	return body, true
}

// extractBalanced finds the first top-level {...} span, tracking string
// literals so braces inside them do not affect the depth count.
func extractBalanced(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
