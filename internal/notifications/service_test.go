package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fermata/internal/config"
	"fermata/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDelivered(context.Background(), "Track Z", "cd", false); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "delivered",
			notify: func(svc notifications.Service) error {
				return svc.NotifyDelivered(context.Background(), "Artist X - Track Z (Album Y, 2021).flac", "cd", false)
			},
			expectTitle:    "Fermata - Delivered",
			expectMessage:  "Delivered: Artist X - Track Z (Album Y, 2021).flac (cd)",
			expectTags:     "fermata,delivery,completed",
			expectPriority: "high",
		},
		{
			name: "delivered transcoded",
			notify: func(svc notifications.Service) error {
				return svc.NotifyDelivered(context.Background(), "Track Z", "mp3-320", true)
			},
			expectTitle:    "Fermata - Delivered",
			expectMessage:  "Delivered: Track Z (mp3-320)\nTranscoded to fit the size budget",
			expectTags:     "fermata,delivery,completed",
			expectPriority: "high",
		},
		{
			name: "exhausted",
			notify: func(svc notifications.Service) error {
				return svc.NotifyExhausted(context.Background(), "https://example.com/track/1")
			},
			expectTitle:   "Fermata - No Deliverable",
			expectMessage: "Every quality tier failed for: https://example.com/track/1",
			expectTags:    "fermata,cascade,exhausted",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("downloader exited abnormally"), "fetch")
			},
			expectTitle:    "Fermata - Error",
			expectMessage:  "Error with fetch: downloader exited abnormally",
			expectTags:     "fermata,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
