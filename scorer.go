package marker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/evalhq/marker/config"
)

// rubricPrompt is the fixed scoring rubric sent as the system message of
// every scoring call.
const rubricPrompt = `You are a strict quality reviewer for question/answer records.
Rate the answer against the question on four criteria, each from 1 to 10:
1. completeness: does the answer cover everything the question asks?
2. accuracy: is the information correct?
3. clarity: is the answer easy to follow?
4. usefulness: would the answer actually help the asker?

Respond with a single JSON object:
{"completeness": 1-10, "accuracy": 1-10, "clarity": 1-10, "usefulness": 1-10, "overall_score": number, "reasoning": "why these scores", "improvement_suggestions": "how to improve the answer"}`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// VerdictScorer scores one record per call through an OpenAI-compatible
// chat completions endpoint. It never retries: a failed call is reported
// as a typed error and absorbed by the processor.
type VerdictScorer struct {
	httpClient *resty.Client
	breaker    *gobreaker.CircuitBreaker[*resty.Response]
	cfg        config.ScorerConfig
}

func NewVerdictScorer(cfg config.ScorerConfig, cb config.CircuitBreakerConfig) *VerdictScorer {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetLogger(zap.S())
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](
		gobreaker.Settings{
			Name:        "scoring_requests",
			MaxRequests: cb.MaxRequests,
			Interval:    cb.Interval,
			Timeout:     cb.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if !cb.Enabled {
					return false
				}
				tooManyTotal := counts.TotalFailures > cb.TotalFailurePerInterval
				tooManyConsecutive := counts.ConsecutiveFailures > cb.ConsecutiveFailure
				return tooManyTotal || tooManyConsecutive
			},
		})

	return &VerdictScorer{
		httpClient: httpClient,
		breaker:    breaker,
		cfg:        cfg,
	}
}

// Score sends exactly one scoring request and parses the verdict object
// embedded in the provider's response text.
func (s *VerdictScorer) Score(
	ctx context.Context,
	question, answer, category string,
) (*Verdict, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, ErrBlankInput
	}

	body := chatRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: rubricPrompt},
			{Role: "user", Content: userPrompt(question, answer, category)},
		},
	}

	resp, err := s.breaker.Execute(func() (*resty.Response, error) {
		resp, err := s.httpClient.R().
			WithContext(ctx).
			SetBody(body).
			Post(s.cfg.RequestURL)
		return resp, processResp(resp, err)
	})
	if err != nil {
		return nil, fmt.Errorf("calling scoring provider: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Bytes(), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	verdict, err := ParseVerdict(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return verdict, nil
}

func userPrompt(question, answer, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nAnswer: %s\n", question, answer)
	if category != "" {
		fmt.Fprintf(&b, "\nCategory: %s\n", category)
	}
	b.WriteString("\nScore this answer.")
	return b.String()
}

func processResp(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	status := resp.StatusCode()
	if status > 399 && status < 500 {
		return fmt.Errorf("%w: status %d", ErrClientError, status)
	}
	if status > 499 {
		return fmt.Errorf("%w: status %d", ErrServerError, status)
	}
	return nil
}

// BreakerOpen reports whether an error came from the tripped circuit
// breaker rather than from the provider itself.
func BreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}
