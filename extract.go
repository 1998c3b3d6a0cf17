package marker

import (
	"encoding/json"
	"fmt"
)

// ExtractFirstObject returns the first balanced {...} span in text. The
// provider is not guaranteed to answer with bare JSON, so the scan walks
// the text tracking brace depth, string literals and escapes. An
// unterminated object counts as no object at all.
func ExtractFirstObject(text string) (json.RawMessage, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return json.RawMessage(text[start : i+1]), nil
				}
			}
		}
	}

	return nil, ErrNoObject
}

// ParseVerdict extracts and decodes the verdict object embedded anywhere
// in the provider's free-form response text.
func ParseVerdict(text string) (*Verdict, error) {
	raw, err := ExtractFirstObject(text)
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, fmt.Errorf("decoding verdict object: %w", err)
	}
	return &verdict, nil
}
