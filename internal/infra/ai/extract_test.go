package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kalaghar/internal/domain/errors"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	t.Parallel()

	text := "Here is your result:\n```json\n{\"price\": 42}\n```\nHope that helps!"

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 42}`, got)
}

func TestExtractJSONBalancedSpan(t *testing.T) {
	t.Parallel()

	text := `The suggested pricing is {"min": 20, "max": {"premium": 60}} based on comparable items.`

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min": 20, "max": {"premium": 60}}`, got)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	t.Parallel()

	text := `prefix {"note": "use { sparingly }", "ok": true} suffix`

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"note": "use { sparingly }", "ok": true}`, got)
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	t.Parallel()

	text := "{\"stray\": 1}\n```json\n{\"fenced\": true}\n```"

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fenced": true}`, got)
}

func TestExtractJSONNoObject(t *testing.T) {
	t.Parallel()

	_, err := ExtractJSON("sorry, I could not produce a result")
	assert.ErrorIs(t, err, apperrors.ErrAIInvalidFormat)
}

func TestExtractJSONUnbalanced(t *testing.T) {
	t.Parallel()

	_, err := ExtractJSON(`broken {"a": 1`)
	assert.ErrorIs(t, err, apperrors.ErrAIInvalidFormat)
}
