// Package submission builds review payloads and posts them to the external
// form collector.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTransport wraps failures to reach the collector at all.
var ErrTransport = errors.New("submission: transport failure")

// RejectedError is returned when the collector answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Status     string
}

func (e *RejectedError) Error() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("submission: collector rejected submission: %s", status)
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	StatusCode int
	AcceptedAt time.Time
}

// Gateway delivers a payload to the collector.
type Gateway interface {
	Submit(ctx context.Context, p Payload) (Receipt, error)
}

// Logger is the subset of logging the gateway needs.
type Logger interface {
	Printf(format string, args ...any)
}

// FormGateway posts payloads as an urlencoded HTML form.
type FormGateway struct {
	settings Settings
	client   *http.Client
	logger   Logger
	clock    func() time.Time
}

// Option customizes gateway construction.
type Option func(*FormGateway)

// WithHTTPClient overrides the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *FormGateway) {
		if c != nil {
			g.client = c
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(g *FormGateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock allows tests to control receipt timestamps.
func WithClock(clock func() time.Time) Option {
	return func(g *FormGateway) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewFormGateway prepares a gateway for the configured endpoint.
func NewFormGateway(settings Settings, opts ...Option) *FormGateway {
	settings.normalize()
	g := &FormGateway{
		settings: settings,
		client:   &http.Client{Timeout: settings.Timeout},
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Endpoint returns the collector URL.
func (g *FormGateway) Endpoint() string {
	return g.settings.Endpoint
}

// Submit posts the payload and waits for the collector's status code.
func (g *FormGateway) Submit(ctx context.Context, p Payload) (Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body := p.Values(g.settings.Fields).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.settings.Endpoint, strings.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Printf("submission: post %s failed: %v", g.settings.Endpoint, err)
		return Receipt{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, g.settings.MaxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Printf("submission: collector answered %s", resp.Status)
		return Receipt{}, &RejectedError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	g.logger.Printf("submission: accepted by collector (%d)", resp.StatusCode)
	return Receipt{StatusCode: resp.StatusCode, AcceptedAt: g.clock()}, nil
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
