// Package spotify is a small client for the Spotify Web API endpoints used by
// the quick search overlay: catalog search, playback and the play queue.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/tracing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL    = "https://api.spotify.com"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Market     string
	Timeout    time.Duration
	MaxRetries int

	// TokenSource authorizes requests. Ignored when HTTPClient is set.
	TokenSource oauth2.TokenSource
	// HTTPClient overrides the oauth2 client built from TokenSource.
	HTTPClient *http.Client
	// Tracer records one span per request. Defaults to a no-op tracer.
	Tracer trace.Tracer
	// NewBackOff builds the retry schedule for a request. Defaults to an
	// exponential backoff.
	NewBackOff func() backoff.BackOff
}

// Client talks to the Spotify Web API.
type Client struct {
	http       *http.Client
	base       *url.URL
	market     string
	maxRetries int
	tracer     trace.Tracer
	newBackOff func() backoff.BackOff
	log        zerolog.Logger
}

// New builds a Client. Either opts.TokenSource or opts.HTTPClient is required.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		if opts.TokenSource == nil {
			return nil, ErrNoCredentials
		}
		hc = oauth2.NewClient(context.Background(), oauth2.ReuseTokenSource(nil, opts.TokenSource))
		hc.Timeout = opts.Timeout
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("spotify")
	}

	newBackOff := opts.NewBackOff
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		}
	}

	return &Client{
		http:       hc,
		base:       base,
		market:     opts.Market,
		maxRetries: opts.MaxRetries,
		tracer:     tracer,
		newBackOff: newBackOff,
		log:        logging.Component("spotify"),
	}, nil
}

// do sends a request and returns the response body. 429 and 5xx responses
// are retried up to maxRetries times; a Retry-After header overrides the
// backoff delay. POST is not idempotent, so it is only retried on 429, which
// the server guarantees it did not apply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	ctx, span := c.tracer.Start(ctx, "spotify "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	idempotent := method != http.MethodPost

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		data, status, header, err := c.send(ctx, method, u.String(), payload)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			// Transport failures are retried like 5xx responses.
			if !idempotent {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if status >= 200 && status < 300 {
			return data, nil
		}

		apiErr := parseAPIError(status, data)
		if !apiErr.Temporary() || (!idempotent && status != http.StatusTooManyRequests) {
			return nil, backoff.Permanent(apiErr)
		}
		if secs, ok := retryAfter(header); ok {
			return nil, fmt.Errorf("%w: %w", apiErr, backoff.RetryAfter(secs))
		}
		return nil, apiErr
	}

	data, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Debug().Err(err).Str("path", path).Dur("next", next).Msg("retrying request")
		}),
	)
	span.SetAttributes(attribute.Int("http.attempts", attempt))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return data, nil
}

func (c *Client) send(ctx context.Context, method, rawURL string, payload []byte) ([]byte, int, http.Header, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, 0, nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, nil, backoff.Permanent(err)
		}
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, 0, nil, backoff.Permanent(fmt.Errorf("%w: %w", ErrUnauthorized, err))
		}
		return nil, 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close response body")
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, resp.Header, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, resp.Header, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		apiErr.Message = eb.Error.Message
	}
	return apiErr
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) (int, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0, false
	}
	return secs, true
}

// IsUnauthorized reports whether err was caused by a rejected token.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
