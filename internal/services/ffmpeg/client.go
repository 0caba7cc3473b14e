package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"fermata/internal/services"
)

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the client.
type Option func(*Client)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(c *Client) {
		if r != nil {
			c.runner = r
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	runner Runner
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, runner: commandRunner{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode re-encodes inputPath into a fixed-bitrate MP3 at outputPath,
// copying any attached image stream instead of re-encoding it.
func (c *Client) Transcode(ctx context.Context, inputPath, outputPath, bitrate string) error {
	if strings.TrimSpace(inputPath) == "" || strings.TrimSpace(outputPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "transcode", "input and output paths required", nil)
	}
	if strings.TrimSpace(bitrate) == "" {
		bitrate = "320k"
	}
	args := []string{
		"-y", "-i", inputPath,
		"-map", "0",
		"-c:a", "libmp3lame",
		"-b:a", bitrate,
		"-c:v", "copy",
		"-id3v2_version", "3",
		outputPath,
	}
	if err := c.runner.Run(ctx, c.binary, args); err != nil {
		_ = os.Remove(outputPath)
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", "encoder exited abnormally", err)
	}
	return nil
}

// EmbedTempPath returns the temporary output path EmbedCover writes before
// renaming over the original. Callers register it for cleanup up front so a
// crash mid-embed leaves nothing behind.
func EmbedTempPath(audioPath string) string {
	dir := filepath.Dir(audioPath)
	base := filepath.Base(audioPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+".embed"+ext)
}

// EmbedCover remuxes coverPath into audioPath as the front-cover attached
// picture, stream-copying both inputs. The original file is replaced only on
// success and left untouched on failure.
func (c *Client) EmbedCover(ctx context.Context, audioPath, coverPath string) error {
	if strings.TrimSpace(audioPath) == "" || strings.TrimSpace(coverPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "embed cover", "audio and cover paths required", nil)
	}
	tempPath := EmbedTempPath(audioPath)
	args := []string{
		"-y", "-i", audioPath, "-i", coverPath,
		"-map", "0:a", "-map", "1",
		"-c", "copy",
		"-disposition:v", "attached_pic",
		"-metadata:s:v", "title=Front cover",
		tempPath,
	}
	if err := c.runner.Run(ctx, c.binary, args); err != nil {
		_ = os.Remove(tempPath)
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "embed cover", "remux exited abnormally", err)
	}
	if err := os.Rename(tempPath, audioPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace original after embed: %w", err)
	}
	return nil
}

type commandRunner struct{}

func (commandRunner) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
