// Package source retrieves economic series from public REST APIs and turns
// them into canonical time series.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const userAgent = "macrolens-cli (+https://github.com/KaramelBytes/macrolens-cli)"

// ClientOptions tunes timeouts, retries and client-side rate limiting.
type ClientOptions struct {
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerSecond float64
}

// DefaultClientOptions mirrors the configuration defaults.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:           15 * time.Second,
		RetryMaxAttempts:  3,
		RetryBaseDelay:    500 * time.Millisecond,
		RetryMaxDelay:     4 * time.Second,
		RequestsPerSecond: 5,
	}
}

// Client is a JSON-over-HTTP client shared by all source adapters.
type Client struct {
	httpClient       *http.Client
	limiter          *rate.Limiter
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	log              *logrus.Logger
}

// NewClient builds a client; zero option fields fall back to defaults.
func NewClient(opts ClientOptions, log *logrus.Logger) *Client {
	def := DefaultClientOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.RetryMaxAttempts <= 0 {
		opts.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = def.RetryBaseDelay
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = def.RetryMaxDelay
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		httpClient:       &http.Client{Timeout: opts.Timeout},
		limiter:          rate.NewLimiter(limit, 1),
		retryMaxAttempts: opts.RetryMaxAttempts,
		retryBaseDelay:   opts.RetryBaseDelay,
		retryMaxDelay:    opts.RetryMaxDelay,
		log:              log,
	}
}

// getJSON issues a GET and decodes the JSON body into out. Network timeouts,
// 429 and 5xx responses are retried with exponential backoff.
func (c *Client) getJSON(ctx context.Context, src, endpoint string, query url.Values, out any) error {
	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	backoff := c.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		retry, wait, err := c.do(ctx, src, target, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == c.retryMaxAttempts {
			break
		}
		if wait <= 0 {
			wait = withJitter(backoff)
			if wait > c.retryMaxDelay {
				wait = c.retryMaxDelay
			}
			backoff *= 2
		}
		c.log.WithFields(logrus.Fields{
			"source":  src,
			"url":     redact(endpoint),
			"attempt": attempt,
			"wait":    wait.String(),
		}).Debugf("retrying after error: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// do performs one attempt. It reports whether the failure is retryable and
// an explicit wait requested by the server.
func (c *Client) do(ctx context.Context, src, target string, out any) (bool, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return isRetryableNetErr(err), 0, fmt.Errorf("http request: %w", scrub(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := decodeAPIError(src, resp.StatusCode, body)
		classified := classifyAPIError(apiErr, resp)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			var wait time.Duration
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
					wait = time.Duration(secs) * time.Second
				}
			}
			return true, wait, classified
		}
		return false, 0, classified
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return false, 0, fmt.Errorf("decode response: %w", err)
	}
	return false, 0, nil
}

func decodeAPIError(src string, status int, body []byte) *APIError {
	apiErr := &APIError{Source: src, StatusCode: status}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 200 {
			apiErr.Message = msg
		}
		return apiErr
	}
	if v, ok := raw["error"].(map[string]any); ok {
		if msg, ok := v["message"].(string); ok {
			apiErr.Message = msg
		}
		if code, ok := v["code"].(string); ok {
			apiErr.Code = code
		}
		return apiErr
	}
	for _, k := range []string{"error_message", "message", "error"} {
		if msg, ok := raw[k].(string); ok {
			apiErr.Message = msg
			break
		}
	}
	if code, ok := raw["error_code"].(float64); ok {
		apiErr.Code = strconv.Itoa(int(code))
	}
	return apiErr
}

// classifyAPIError maps generic APIError to typed errors.
func classifyAPIError(apiErr *APIError, resp *http.Response) error {
	sc := apiErr.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case sc == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case sc == http.StatusNotFound:
		return &NotFoundError{APIError: apiErr}
	case sc == http.StatusBadRequest && containsFold(apiErr.Message, "api_key"):
		// FRED answers 400 rather than 401 for a bad key.
		return &AuthError{APIError: apiErr}
	case sc == http.StatusBadRequest && containsFold(apiErr.Message, "does not exist"):
		return &NotFoundError{APIError: apiErr}
	case sc >= 500 && sc <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

func containsFold(s, sub string) bool {
	if s == "" || sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfterSeconds interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

// redact strips credentials from a URL before it reaches logs or errors.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, k := range []string{"api_key", "access_key", "apikey"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// scrub rewrites the URL inside a *url.Error so the API key never surfaces.
func scrub(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: redact(uerr.URL), Err: uerr.Err}
	}
	return err
}
