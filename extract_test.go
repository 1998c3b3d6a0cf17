package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFirstObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare object",
			text: `{"completeness": 8}`,
			want: `{"completeness": 8}`,
		},
		{
			name: "prose around the object",
			text: `Sure! Here is my verdict: {"completeness": 8} Hope this helps.`,
			want: `{"completeness": 8}`,
		},
		{
			name: "nested objects stay balanced",
			text: `{"a": {"b": {"c": 1}}, "d": 2} trailing`,
			want: `{"a": {"b": {"c": 1}}, "d": 2}`,
		},
		{
			name: "braces inside string literals are ignored",
			text: `{"reasoning": "uses {placeholders} and a } brace"}`,
			want: `{"reasoning": "uses {placeholders} and a } brace"}`,
		},
		{
			name: "escaped quotes inside strings",
			text: `{"reasoning": "she said \"watch the } here\""}`,
			want: `{"reasoning": "she said \"watch the } here\""}`,
		},
		{
			name: "only the first object is taken",
			text: `{"a": 1} {"b": 2}`,
			want: `{"a": 1}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractFirstObject(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestExtractFirstObjectNoObject(t *testing.T) {
	for _, text := range []string{
		"",
		"no json here at all",
		`just a closing brace }`,
		`{"truncated": "the provider stopped mid-`,
		`{"unbalanced": {"nested": 1}`,
	} {
		_, err := ExtractFirstObject(text)
		assert.ErrorIs(t, err, ErrNoObject, "text %q", text)
	}
}

func TestParseVerdict(t *testing.T) {
	text := `The answer is decent overall.

{"completeness": 8, "accuracy": 9, "clarity": 7, "usefulness": 8,
 "overall_score": 8, "reasoning": "covers the main points",
 "improvement_suggestions": "add an example"}

Let me know if you need anything else.`

	verdict, err := ParseVerdict(text)
	require.NoError(t, err)
	assert.Equal(t, 8.0, verdict.Completeness)
	assert.Equal(t, 9.0, verdict.Accuracy)
	assert.Equal(t, 7.0, verdict.Clarity)
	assert.Equal(t, 8.0, verdict.Usefulness)
	assert.Equal(t, 8.0, verdict.OverallScore)
	assert.Equal(t, "covers the main points", verdict.Reasoning)
	assert.Equal(t, "add an example", verdict.ImprovementSuggestions)
}

func TestParseVerdictInvalidObject(t *testing.T) {
	_, err := ParseVerdict(`verdict: {completeness: eight}`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoObject, "a found but undecodable object is a decoding error")
}
