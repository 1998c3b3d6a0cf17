package marker

import "errors"

var (
	// ErrSourceUnavailable means the record source could not be reached.
	// It is the only failure that aborts a run before a report exists.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrEmptyResponse means the provider returned no text to parse.
	ErrEmptyResponse = errors.New("empty response from scoring provider")

	// ErrMalformedResponse means the provider returned text without a
	// parseable verdict object.
	ErrMalformedResponse = errors.New("malformed response from scoring provider")

	// ErrNoObject is returned by ExtractFirstObject when the text contains
	// no balanced JSON object.
	ErrNoObject = errors.New("no JSON object found in text")

	// ErrBlankInput means a record is missing its question or answer text.
	ErrBlankInput = errors.New("question and answer must be non-empty")

	ErrClientError = errors.New("client error from scoring provider")
	ErrServerError = errors.New("server error from scoring provider")
)
