package qobuzdl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"fermata/internal/progress"
	"fermata/internal/services"
)

// Fetcher defines the behaviour the cascade controller needs from the
// download tool.
type Fetcher interface {
	Fetch(ctx context.Context, url, quality, destDir string, sink progress.Sink) error
}

// Executor abstracts command execution for testability. Implementations must
// deliver output chunks as they arrive; chunk boundaries carry no meaning.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func([]byte)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithProgressThreshold overrides the minimum percent advance between
// emitted progress events.
func WithProgressThreshold(threshold float64) Option {
	return func(c *Client) {
		if threshold > 0 {
			c.progressThreshold = threshold
		}
	}
}

// Client wraps qobuz-dl CLI interactions.
type Client struct {
	binary            string
	fetchTimeout      time.Duration
	progressThreshold float64
	exec              Executor
}

// New constructs a downloader client.
func New(binary string, fetchTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("downloader binary required")
	}
	client := &Client{
		binary:            binary,
		fetchTimeout:      time.Duration(fetchTimeoutSeconds) * time.Second,
		progressThreshold: progress.DefaultThreshold,
		exec:              commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch executes one download attempt at the given quality. The tool writes
// into destDir; discovering what it produced is the caller's concern. A
// non-zero exit is returned as an external-tool error, a deadline hit as a
// timeout error.
func (c *Client) Fetch(ctx context.Context, url, quality, destDir string, sink progress.Sink) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return services.Wrap(services.ErrValidation, "qobuzdl", "fetch", "source URL required", nil)
	}
	if strings.TrimSpace(destDir) == "" {
		return services.Wrap(services.ErrValidation, "qobuzdl", "fetch", "destination directory required", nil)
	}

	fetchCtx := ctx
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	args := []string{"dl", url, "--directory", destDir, "--no-db"}
	if quality = strings.TrimSpace(quality); quality != "" {
		args = append(args, "--quality", quality)
	}

	parser := progress.NewParser(c.progressThreshold)
	onOutput := func(chunk []byte) {
		if sink == nil {
			return
		}
		for _, event := range parser.Feed(chunk) {
			sink(event)
		}
	}

	if err := c.exec.Run(fetchCtx, c.binary, args, onOutput); err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "qobuzdl", "fetch", "download attempt timed out", err)
		}
		return services.Wrap(services.ErrExternalTool, "qobuzdl", "fetch", "downloader exited abnormally", err)
	}
	if sink != nil {
		if event, ok := parser.Flush(); ok {
			sink(event)
		}
	}
	return nil
}

type commandExecutor struct{}

// Run merges stdout and stderr and reads byte chunks rather than lines;
// the tool redraws its progress line with bare carriage returns, which a
// line-buffered read would only surface after completion.
func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func([]byte)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	buf := make([]byte, 4096)
	for {
		n, readErr := stdout.Read(buf)
		if n > 0 && onOutput != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			onOutput(chunk)
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
				return fmt.Errorf("read output: %w", readErr)
			}
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

var _ Fetcher = (*Client)(nil)
