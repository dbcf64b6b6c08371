package vavoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3

	pingUserAgent    = "okhttp/4.11.0"
	catalogUserAgent = "MediaHubMX/2"
	signatureHeader  = "mediahubmx-signature"
)

// Config captures the runtime settings required to talk to the Vavoo API.
type Config struct {
	PingURL        string
	CatalogURL     string
	ResolveURL     string
	Group          string
	ClientVersion  string
	TimeoutSeconds int
	RetryAttempts  int
}

// Client talks to the Vavoo catalog cluster.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Vavoo client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	client := &Client{
		cfg: Config{
			PingURL:       strings.TrimSpace(cfg.PingURL),
			CatalogURL:    strings.TrimSpace(cfg.CatalogURL),
			ResolveURL:    strings.TrimSpace(cfg.ResolveURL),
			Group:         strings.TrimSpace(cfg.Group),
			ClientVersion: strings.TrimSpace(cfg.ClientVersion),
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: attempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.ClientVersion == "" {
		client.cfg.ClientVersion = appBinaryVersion
	}
	return client
}

// Item is a single channel entry as returned by the catalog endpoint.
type Item struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("vavoo request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Signature obtains a fresh addon signature from the ping endpoint. The
// returned value authenticates catalog and resolve calls via the
// mediahubmx-signature header.
func (c *Client) Signature(ctx context.Context) (string, error) {
	if c.cfg.PingURL == "" {
		return "", errors.New("vavoo signature: ping url required")
	}
	var response struct {
		AddonSig string `json:"addonSig"`
	}
	headers := http.Header{}
	headers.Set("User-Agent", pingUserAgent)
	if err := c.postJSON(ctx, "vavoo signature", c.cfg.PingURL, headers, signaturePayload(), &response); err != nil {
		return "", err
	}
	sig := strings.TrimSpace(response.AddonSig)
	if sig == "" {
		return "", errors.New("vavoo signature: response carried no addonSig")
	}
	return sig, nil
}

// Catalog fetches the full channel listing for the configured group,
// following cursor pagination until the server returns an empty page.
func (c *Client) Catalog(ctx context.Context, signature string) ([]Item, error) {
	if c.cfg.CatalogURL == "" {
		return nil, errors.New("vavoo catalog: catalog url required")
	}
	if strings.TrimSpace(signature) == "" {
		return nil, errors.New("vavoo catalog: signature required")
	}

	headers := http.Header{}
	headers.Set("User-Agent", catalogUserAgent)
	headers.Set(signatureHeader, signature)

	var all []Item
	cursor := 0
	for {
		payload := catalogRequest{
			Language:      "de",
			Region:        "AT",
			CatalogID:     "vto-iptv",
			ID:            "vto-iptv",
			Adult:         false,
			Search:        "",
			Sort:          "name",
			Filter:        catalogFilter{Group: c.cfg.Group},
			Cursor:        cursor,
			ClientVersion: c.cfg.ClientVersion,
		}
		var response struct {
			Items []Item `json:"items"`
		}
		if err := c.postJSON(ctx, "vavoo catalog", c.cfg.CatalogURL, headers, payload, &response); err != nil {
			return nil, fmt.Errorf("page at cursor %d: %w", cursor, err)
		}
		if len(response.Items) == 0 {
			break
		}
		all = append(all, response.Items...)
		cursor += len(response.Items)
	}
	return all, nil
}

// Resolve exchanges a channel URL for its playable stream URL. Localhost URLs
// are returned unchanged since they never need upstream resolution.
func (c *Client) Resolve(ctx context.Context, signature, link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", errors.New("vavoo resolve: url required")
	}
	if strings.Contains(link, "localhost") {
		return link, nil
	}
	if c.cfg.ResolveURL == "" {
		return "", errors.New("vavoo resolve: resolve url required")
	}
	if strings.TrimSpace(signature) == "" {
		return "", errors.New("vavoo resolve: signature required")
	}

	headers := http.Header{}
	headers.Set("User-Agent", catalogUserAgent)
	headers.Set(signatureHeader, signature)

	payload := resolveRequest{
		Language:      "de",
		Region:        "AT",
		URL:           link,
		ClientVersion: c.cfg.ClientVersion,
	}
	var response []struct {
		URL string `json:"url"`
	}
	if err := c.postJSON(ctx, "vavoo resolve", c.cfg.ResolveURL, headers, payload, &response); err != nil {
		return "", err
	}
	if len(response) == 0 || strings.TrimSpace(response[0].URL) == "" {
		return "", errors.New("vavoo resolve: empty result")
	}
	return response[0].URL, nil
}

type catalogRequest struct {
	Language      string        `json:"language"`
	Region        string        `json:"region"`
	CatalogID     string        `json:"catalogId"`
	ID            string        `json:"id"`
	Adult         bool          `json:"adult"`
	Search        string        `json:"search"`
	Sort          string        `json:"sort"`
	Filter        catalogFilter `json:"filter"`
	Cursor        int           `json:"cursor"`
	ClientVersion string        `json:"clientVersion"`
}

type catalogFilter struct {
	Group string `json:"group"`
}

type resolveRequest struct {
	Language      string `json:"language"`
	Region        string `json:"region"`
	URL           string `json:"url"`
	ClientVersion string `json:"clientVersion"`
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, headers http.Header, payload, target any) error {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.postJSONOnce(ctx, op, endpoint, headers, payload, target)
		if err == nil {
			return nil
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return err
		}
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (c *Client) postJSONOnce(ctx context.Context, op, endpoint string, headers http.Header, payload, target any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http error: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.backoffDelay(attempt), true
	}

	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	if base <= 0 {
		return 0
	}
	maxDelay := c.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := c.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
