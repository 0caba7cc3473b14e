// Package audd recognizes audio files via the AudD API. It is used by the
// recognize command to identify tracks whose tags are missing or wrong.
package audd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fermata/internal/services"
)

const defaultBaseURL = "https://api.audd.io/"

// Result is a successful recognition.
type Result struct {
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
	Label       string `json:"label"`
	ISRC        string `json:"isrc"`
}

// Client talks to the AudD recognition endpoint.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, primarily for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if strings.TrimSpace(url) != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// New builds a client for the given API token.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "audd", "new", "API token required", nil)
	}
	client := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type apiResponse struct {
	Status string  `json:"status"`
	Result *Result `json:"result"`
	Error  *struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"error"`
}

// Recognize uploads the audio file at path and returns the identified track.
// A clean "no match" response maps to services.ErrNotFound.
func (c *Client) Recognize(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "audd", "recognize", "open audio file", err)
	}
	defer file.Close()

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("api_token", c.token); err != nil {
		return nil, fmt.Errorf("write api_token field: %w", err)
	}
	if err := writer.WriteField("return", "apple_music,spotify"); err != nil {
		return nil, fmt.Errorf("write return field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy audio into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "audd", "recognize", "recognition request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, services.Wrap(services.ErrExternalTool, "audd", "recognize",
			fmt.Sprintf("recognition API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), nil)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode recognition response: %w", err)
	}
	if decoded.Status != "success" {
		detail := "recognition rejected"
		if decoded.Error != nil {
			detail = fmt.Sprintf("recognition rejected (%d): %s", decoded.Error.ErrorCode, decoded.Error.ErrorMessage)
		}
		return nil, services.Wrap(services.ErrExternalTool, "audd", "recognize", detail, nil)
	}
	if decoded.Result == nil {
		return nil, services.Wrap(services.ErrNotFound, "audd", "recognize", "no match for audio sample", nil)
	}
	return decoded.Result, nil
}
