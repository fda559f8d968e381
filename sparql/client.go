package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lblod/acmidm-login-service/internal/metrics"
)

// Executor issues SPARQL queries and updates against a store. The concrete
// Client talks to a remote endpoint; tests substitute a recording fake.
type Executor interface {
	Select(ctx context.Context, query string) (*Results, error)
	Update(ctx context.Context, update string) error
}

// CallHeaders carries the mu request headers that must be propagated with
// every call to the store, plus the sudo marker that bypasses mu-authorization.
type CallHeaders struct {
	SessionID string
	CallID    string
}

type callHeadersKey struct{}

// WithCallHeaders attaches mu call headers to the context for propagation.
func WithCallHeaders(ctx context.Context, h CallHeaders) context.Context {
	return context.WithValue(ctx, callHeadersKey{}, h)
}

// CallHeadersFromContext returns the attached headers, zero when absent.
func CallHeadersFromContext(ctx context.Context) CallHeaders {
	h, _ := ctx.Value(callHeadersKey{}).(CallHeaders)
	return h
}

// Client implements Executor over the SPARQL 1.1 protocol (HTTP POST with
// form-encoded query/update parameters).
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

var _ Executor = (*Client)(nil)

func NewClient(endpoint string, timeout time.Duration, m *metrics.Metrics, log zerolog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		metrics:    m,
		log:        log,
	}
}

func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	started := time.Now()
	body, err := c.post(ctx, url.Values{"query": {query}})
	c.metrics.ObserveSparqlLatency("select", time.Since(started))
	if err != nil {
		return nil, err
	}

	var results Results
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("sparql select: decoding results: %w", err)
	}
	return &results, nil
}

func (c *Client) Update(ctx context.Context, update string) error {
	started := time.Now()
	_, err := c.post(ctx, url.Values{"update": {update}})
	c.metrics.ObserveSparqlLatency("update", time.Since(started))
	return err
}

func (c *Client) post(ctx context.Context, form url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sparql: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	// Propagate the caller's mu headers and act with sudo rights so graph
	// access is not restricted by the caller's own (possibly absent) session.
	headers := CallHeadersFromContext(ctx)
	if headers.SessionID != "" {
		req.Header.Set("mu-session-id", headers.SessionID)
	}
	if headers.CallID != "" {
		req.Header.Set("mu-call-id", headers.CallID)
	}
	req.Header.Set("mu-auth-sudo", "true")

	c.log.Debug().Str("endpoint", c.endpoint).Msg(form.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql: calling endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sparql: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sparql: endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
