package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"antenna/internal/config"
)

const userAgent = "antenna/0.1.0"

// Service is the notification surface used by the catalog refresher.
type Service interface {
	RefreshCompleted(ctx context.Context, total, kept int, duration time.Duration) error
	RefreshFailed(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) RefreshCompleted(ctx context.Context, total, kept int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	data := payload{
		title:   "Antenna - Catalog Refreshed",
		message: fmt.Sprintf("Catalog refresh complete: kept %d of %d channels in %s", kept, total, duration),
		tags:    []string{"antenna", "refresh", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) RefreshFailed(ctx context.Context, err error) error {
	message := "Catalog refresh failed: unknown"
	if err != nil {
		message = "Catalog refresh failed: " + strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Antenna - Refresh Failed",
		message:  message,
		tags:     []string{"antenna", "refresh", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Antenna - Test",
		message:  "Notification system test",
		tags:     []string{"antenna", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) RefreshCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) RefreshFailed(context.Context, error) error                      { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
