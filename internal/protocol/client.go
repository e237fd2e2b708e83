// Package protocol implements the request/response exchange with the
// remote answering service. One call, one question, one normalized
// outcome; expected failures are classified values, never errors.
package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/englishcorner/chatclient/internal/telemetry"
	"github.com/englishcorner/chatclient/internal/tokens"
)

const (
	defaultEndpoint = "https://api.englishcorner.cyou:8443/chat"

	// fallbackAnswer covers a 2xx response that carries no answer text.
	// The service answered, just without content, so this is not a failure.
	fallbackAnswer = "Sorry, I couldn't find an answer."

	// bodyReadPlaceholder substitutes for an error body that could not be read.
	bodyReadPlaceholder = "Could not read error details"
)

// Contract violations; everything else comes back as an Outcome.
var (
	ErrEmptyQuestion  = errors.New("protocol: question must not be empty")
	ErrEmptySessionID = errors.New("protocol: session id must not be empty")
)

// Option configures the client.
type Option func(*Client)

// WithEndpoint sets a custom answering-service URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the answering service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	emitter    telemetry.Emitter
	logger     *slog.Logger
	estimator  *tokens.Estimator
}

func NewClient(emitter telemetry.Emitter, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		emitter:    emitter,
		logger:     logger,
		estimator:  tokens.NewEstimator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	Answer      *string           `json:"answer"`
	SourcesUsed []json.RawMessage `json:"sources_used"`
}

// Send performs one exchange. The returned error is non-nil only for
// contract violations; every expected failure mode (transport, protocol,
// decoding) is an Outcome carrying a Failure. A telemetry event is
// emitted on every exit path.
func (c *Client) Send(ctx context.Context, question, sessionID string) (Outcome, error) {
	if question == "" {
		return Outcome{}, ErrEmptyQuestion
	}
	if sessionID == "" {
		return Outcome{}, ErrEmptySessionID
	}

	start := time.Now()
	c.emitter.Emit("chat_message_sent", map[string]any{
		"message_length": len(question),
		"token_count":    c.estimator.Count(question),
		"session_id":     sessionID,
	})

	body, err := json.Marshal(askRequest{Question: question, SessionID: sessionID})
	if err != nil {
		// Two plain strings cannot fail to marshal; treat as a contract violation.
		return Outcome{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.emitError(sessionID, start, map[string]any{
			"error_type":    string(FailureNetwork),
			"error_message": err.Error(),
		})
		return failureOutcome(FailureNetwork, err.Error()), nil
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := string(respBody)
		if readErr != nil {
			detail = bodyReadPlaceholder
		}
		c.emitError(sessionID, start, map[string]any{
			"error_status": resp.StatusCode,
			"error_text":   detail,
		})
		return failureOutcome(FailureBackend, fmt.Sprintf("%d: %s", resp.StatusCode, detail)), nil
	}

	var parsed askResponse
	if readErr != nil || json.Unmarshal(respBody, &parsed) != nil {
		c.emitError(sessionID, start, map[string]any{
			"error_type": "json_parse_error",
		})
		return failureOutcome(FailureInvalidResponse, ""), nil
	}

	text := fallbackAnswer
	sources := 0
	if parsed.Answer != nil && *parsed.Answer != "" {
		text = *parsed.Answer
		sources = len(parsed.SourcesUsed)
	}

	c.emitter.Emit("chat_response_received", map[string]any{
		"response_time_ms": time.Since(start).Milliseconds(),
		"response_length":  len(text),
		"sources_used":     sources,
		"session_id":       sessionID,
	})

	return answerOutcome(text, sources), nil
}

func (c *Client) emitError(sessionID string, start time.Time, attrs map[string]any) {
	attrs["response_time_ms"] = time.Since(start).Milliseconds()
	attrs["session_id"] = sessionID
	c.logger.Warn("chat exchange failed", slog.Any("attrs", attrs))
	c.emitter.Emit("chat_error", attrs)
}
