// Package oracle implements the pipeline's oracle boundaries over an LLM
// provider: entity extraction, relation relevance, plan synthesis, and code
// generation. Each oracle renders a prompt, calls the provider, and parses
// the reply; all structural validation stays with the callers.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ontoplan/ontoplan/pkg/llms"
)

// TransportError reports a provider call that failed before a usable reply
// arrived.
type TransportError struct {
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("oracle transport failure (request %s): %v", e.RequestID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedReplyError reports a reply that arrived but could not be parsed
// into the expected shape. Raw retains the reply for diagnostics.
type MalformedReplyError struct {
	RequestID string
	Raw       string
	Err       error
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("oracle reply unparseable (request %s): %v", e.RequestID, e.Err)
}

func (e *MalformedReplyError) Unwrap() error { return e.Err }

// client is the shared provider-call plumbing embedded by every oracle.
type client struct {
	provider llms.Provider
	logger   *slog.Logger
	timeout  time.Duration
}

// Option configures an oracle.
type Option func(*client)

// WithLogger sets the oracle's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *client) {
		c.logger = l
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

func newClient(provider llms.Provider, opts ...Option) client {
	c := client{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// complete runs one provider round trip. Every call gets a request id for
// log correlation and error reporting.
func (c *client) complete(ctx context.Context, system, user string, forceJSON bool) (string, string, error) {
	requestID := uuid.NewString()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("oracle request",
		"request_id", requestID,
		"model", c.provider.ModelName(),
		"prompt_bytes", len(system)+len(user))

	resp, err := c.provider.Generate(ctx, &llms.Request{
		Messages: []llms.Message{
			llms.SystemMessage(system),
			llms.UserMessage(user),
		},
		ForceJSON: forceJSON,
	})
	if err != nil {
		return "", requestID, &TransportError{RequestID: requestID, Err: err}
	}

	c.logger.Debug("oracle reply",
		"request_id", requestID,
		"tokens", resp.TotalTokens)

	return resp.Text, requestID, nil
}
