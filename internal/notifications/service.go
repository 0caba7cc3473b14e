package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fermata/internal/config"
)

const userAgent = "Fermata-Go/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyFetchStarted(ctx context.Context, url string) error
	NotifyDelivered(ctx context.Context, title, tierLabel string, transcoded bool) error
	NotifyExhausted(ctx context.Context, url string) error
	NotifyError(ctx context.Context, err error, context string) error
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

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
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

func (n *ntfyService) NotifyFetchStarted(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	data := payload{
		title:   "Fermata - Fetch Started",
		message: fmt.Sprintf("Started fetching: %s", url),
		tags:    []string{"fermata", "fetch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDelivered(ctx context.Context, title, tierLabel string, transcoded bool) error {
	title = strings.TrimSpace(title)
	tierLabel = strings.TrimSpace(tierLabel)
	if tierLabel == "" {
		tierLabel = "unknown"
	}
	message := fmt.Sprintf("Delivered: %s (%s)", title, tierLabel)
	if transcoded {
		message += "\nTranscoded to fit the size budget"
	}
	data := payload{
		title:    "Fermata - Delivered",
		message:  message,
		tags:     []string{"fermata", "delivery", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExhausted(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	data := payload{
		title:   "Fermata - No Deliverable",
		message: fmt.Sprintf("Every quality tier failed for: %s", url),
		tags:    []string{"fermata", "cascade", "exhausted"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Fermata - Error",
		message:  builder.String(),
		tags:     []string{"fermata", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Fermata - Test",
		message:  "Notification system test",
		tags:     []string{"fermata", "test"},
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

func (noopService) NotifyFetchStarted(context.Context, string) error            { return nil }
func (noopService) NotifyDelivered(context.Context, string, string, bool) error { return nil }
func (noopService) NotifyExhausted(context.Context, string) error               { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
