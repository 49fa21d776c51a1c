// Package httpclient provides a retrying HTTP client for panel requests,
// with exponential backoff, transparent decompression, and structured logging.
//
// The retry policy is a constructor-injected configuration value: attempt
// ceilings, backoff base/cap, and the retryable status-code set all live on
// Config rather than in any process-global state.
package httpclient

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// Common errors returned by the client.
var (
	ErrMaxRetries       = errors.New("max retries exceeded")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Default configuration values.
const (
	DefaultTimeout           = 6 * time.Second
	DefaultRetryAttempts     = 4
	DefaultRedirectAttempts  = 2
	DefaultRetryDelay        = 1 * time.Second
	DefaultRetryMaxDelay     = 12 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultRateLimitDelay    = 10 * time.Second

	// DefaultRetryStatusCodes lists the transient statuses worth retrying.
	DefaultRetryStatusCodes = "408,429,500,502,503,504"

	DefaultAcceptEncodingHeader = "gzip, deflate, br"
)

// HTTP header constants.
const (
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentEncoding = "Content-Encoding"
	HeaderUserAgent       = "User-Agent"

	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
	EncodingBrotli  = "br"
)

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the overall per-request timeout.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the initial request.
	RetryAttempts int

	// RedirectAttempts is the maximum number of redirects to follow.
	RedirectAttempts int

	// RetryDelay is the initial delay between retries.
	RetryDelay time.Duration

	// RetryMaxDelay caps the exponential backoff delay.
	RetryMaxDelay time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64

	// RateLimitDelay is the fixed wait applied after an HTTP 429 response
	// before the normal backoff retry.
	RateLimitDelay time.Duration

	// RetryStatusCodes are the statuses considered transient. If empty,
	// DefaultRetryStatusCodes is used.
	RetryStatusCodes *StatusCodeSet

	// UserAgent is the User-Agent header sent when the request has none.
	UserAgent string

	// Logger is the structured logger for request/retry logging.
	Logger *slog.Logger

	// EnableDecompression enables automatic response decompression.
	EnableDecompression bool

	// BaseClient is the underlying http.Client to use.
	// If nil, a default client is created from Timeout and RedirectAttempts.
	BaseClient *http.Client
}

// DefaultConfig returns a Config with the panel-friendly defaults:
// 4 retries with exponential backoff from 1s capped at 12s, at most
// 2 redirects, and a fixed 10s wait after HTTP 429.
func DefaultConfig() Config {
	return Config{
		Timeout:             DefaultTimeout,
		RetryAttempts:       DefaultRetryAttempts,
		RedirectAttempts:    DefaultRedirectAttempts,
		RetryDelay:          DefaultRetryDelay,
		RetryMaxDelay:       DefaultRetryMaxDelay,
		BackoffMultiplier:   DefaultBackoffMultiplier,
		RateLimitDelay:      DefaultRateLimitDelay,
		RetryStatusCodes:    MustParseStatusCodes(DefaultRetryStatusCodes),
		Logger:              slog.Default(),
		EnableDecompression: true,
	}
}

// Client is a retrying HTTP client.
type Client struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new retrying HTTP client with the given configuration.
func New(cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RetryStatusCodes.IsEmpty() {
		cfg.RetryStatusCodes = MustParseStatusCodes(DefaultRetryStatusCodes)
	}
	if cfg.BackoffMultiplier <= 1 {
		cfg.BackoffMultiplier = DefaultBackoffMultiplier
	}

	baseClient := cfg.BaseClient
	if baseClient == nil {
		maxRedirects := cfg.RedirectAttempts
		baseClient = &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		}
	}

	return &Client{
		config: cfg,
		client: baseClient,
		logger: cfg.Logger,
	}
}

// NewWithDefaults creates a new client with default configuration.
func NewWithDefaults() *Client {
	return New(DefaultConfig())
}

// Do executes an HTTP request, retrying transient failures per the
// configured policy. When retries exhaust on a retryable status code the
// final response is returned so the caller can classify it; when they
// exhaust on a network error the last error is wrapped in ErrMaxRetries.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if req.Header.Get(HeaderUserAgent) == "" && c.config.UserAgent != "" {
		req.Header.Set(HeaderUserAgent, c.config.UserAgent)
	}
	if c.config.EnableDecompression && req.Header.Get(HeaderAcceptEncoding) == "" {
		req.Header.Set(HeaderAcceptEncoding, DefaultAcceptEncodingHeader)
	}

	var lastErr error
	delay := c.config.RetryDelay

	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("url", req.URL.Redacted()),
			)

			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}

			delay = time.Duration(float64(delay) * c.config.BackoffMultiplier)
			if delay > c.config.RetryMaxDelay {
				delay = c.config.RetryMaxDelay
			}
		}

		start := time.Now()
		resp, err := c.client.Do(req.WithContext(ctx))
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			c.logger.Warn("request failed",
				slog.String("url", req.URL.Redacted()),
				slog.String("method", req.Method),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt),
			)

			// Context errors are not retryable.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			continue
		}

		if c.isRetryableStatus(resp.StatusCode) && attempt < c.config.RetryAttempts {
			lastErr = fmt.Errorf("retryable status code: %d", resp.StatusCode)
			c.logger.Warn("retryable status code",
				slog.String("url", req.URL.Redacted()),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", duration),
				slog.Int("attempt", attempt),
			)
			resp.Body.Close()

			// Servers answering 429 are throttling us: hold off for the
			// fixed delay before the normal backoff retry kicks in.
			if resp.StatusCode == http.StatusTooManyRequests && c.config.RateLimitDelay > 0 {
				if err := sleepContext(ctx, c.config.RateLimitDelay); err != nil {
					return nil, err
				}
			}
			continue
		}

		c.logger.Debug("request completed",
			slog.String("url", req.URL.Redacted()),
			slog.String("method", req.Method),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", duration),
		)

		if c.config.EnableDecompression {
			resp.Body = c.wrapDecompression(resp)
		}

		return resp, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaxRetries, lastErr)
	}
	return nil, ErrMaxRetries
}

// Get performs a GET request to the specified URL.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.Do(req)
}

// isRetryableStatus returns true if the HTTP status code is transient.
func (c *Client) isRetryableStatus(code int) bool {
	return c.config.RetryStatusCodes.Contains(code)
}

// sleepContext waits for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// wrapDecompression wraps the response body with appropriate decompression.
func (c *Client) wrapDecompression(resp *http.Response) io.ReadCloser {
	encoding := resp.Header.Get(HeaderContentEncoding)
	if encoding == "" {
		return resp.Body
	}

	switch strings.ToLower(encoding) {
	case EncodingGzip:
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.Warn("failed to create gzip reader, returning raw body",
				slog.String("error", err.Error()),
			)
			return resp.Body
		}
		return &decompressReader{reader: reader, closer: resp.Body}

	case EncodingDeflate:
		reader := flate.NewReader(resp.Body)
		return &decompressReader{reader: reader, closer: resp.Body}

	case EncodingBrotli:
		reader := brotli.NewReader(resp.Body)
		return &decompressReader{reader: reader, closer: resp.Body}

	default:
		c.logger.Debug("unknown content encoding, returning raw body",
			slog.String("encoding", encoding),
		)
		return resp.Body
	}
}

// decompressReader wraps a decompression reader with the original body closer.
type decompressReader struct {
	reader io.Reader
	closer io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReader) Close() error {
	if closer, ok := d.reader.(io.Closer); ok {
		closer.Close()
	}
	return d.closer.Close()
}
