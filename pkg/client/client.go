// Package client is a typed HTTP client for the rosterd API.
//
// Reads, updates and deletes are retried with a constant backoff. Creates are
// sent once, since a retried create could register the same player twice.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"

	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/store"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultBackoff      = 200 * time.Millisecond
	defaultMaxJitter    = 100 * time.Millisecond
	requestIdHeader     = "X-Request-Id"
	operationNamePrefix = "rosterd.client "
	maxErrorBodyBytes   = 4 << 10
	contentTypeHeader   = "Content-Type"
	contentTypeJSON     = "application/json"
)

// ErrNotFound is returned for a 404 response
var ErrNotFound = store.ErrNotFound

// APIError carries a non-2xx response other than 404
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rosterd returned %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080
	BaseURL string

	Timeout time.Duration

	// Retries is the number of extra attempts for idempotent calls
	Retries int

	// Tracer defaults to opentracing.GlobalTracer()
	Tracer opentracing.Tracer
}

type Client struct {
	baseURL  string
	retrying heimdall.Client
	once     heimdall.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client requires a base url")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Tracer == nil {
		cfg.Tracer = opentracing.GlobalTracer()
	}

	doer := &tracingDoer{
		tracer: cfg.Tracer,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &nethttp.Transport{RoundTripper: http.DefaultTransport},
		},
	}

	backoff := heimdall.NewConstantBackoff(defaultBackoff, defaultMaxJitter)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retrying: httpclient.NewClient(
			httpclient.WithHTTPTimeout(cfg.Timeout),
			httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
			httpclient.WithRetryCount(cfg.Retries),
			httpclient.WithHTTPClient(doer),
		),
		once: httpclient.NewClient(
			httpclient.WithHTTPTimeout(cfg.Timeout),
			httpclient.WithHTTPClient(doer),
		),
	}, nil
}

// tracingDoer starts a client span for every attempt and injects it into the
// request headers
type tracingDoer struct {
	tracer opentracing.Tracer
	client *http.Client
}

func (d *tracingDoer) Do(req *http.Request) (*http.Response, error) {
	req, ht := nethttp.TraceRequest(d.tracer, req,
		nethttp.OperationName(operationNamePrefix+req.Method+" "+req.URL.Path))
	defer ht.Finish()
	return d.client.Do(req)
}

func (c *Client) do(ctx context.Context, hc heimdall.Client, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set(contentTypeHeader, contentTypeJSON)
	}
	if id := logger.RequestId(ctx); id != "" {
		req.Header.Set(requestIdHeader, id)
	}

	// heimdall returns the last response together with an error once retries
	// on 5xx are exhausted
	resp, err := hc.Do(req)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil && resp == nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
