package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags"`
}

// Inspector is the probe surface the assembler consumes.
type Inspector interface {
	Inspect(ctx context.Context, path string) (Result, error)
}

// CLI executes the real ffprobe binary.
type CLI struct {
	binary string
}

// NewCLI constructs an inspector using the given binary name; empty selects
// "ffprobe" from PATH.
func NewCLI(binary string) *CLI {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &CLI{binary: binary}
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (c *CLI) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, c.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Tag returns the first matching container-level tag, comparing keys
// case-insensitively. FLAC writes "ARTIST", MP3 writes "artist".
func (r Result) Tag(keys ...string) string {
	for _, key := range keys {
		for k, v := range r.Format.Tags {
			if strings.EqualFold(k, key) {
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			}
		}
		// Some containers keep tags on the audio stream instead.
		for _, stream := range r.Streams {
			if !strings.EqualFold(stream.CodecType, "audio") {
				continue
			}
			for k, v := range stream.Tags {
				if strings.EqualFold(k, key) {
					if trimmed := strings.TrimSpace(v); trimmed != "" {
						return trimmed
					}
				}
			}
		}
	}
	return ""
}

// HasAttachedPicture reports whether the container already carries a video
// stream flagged as an attached picture.
func (r Result) HasAttachedPicture() bool {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if stream.Disposition["attached_pic"] == 1 {
			return true
		}
	}
	return false
}

var _ Inspector = (*CLI)(nil)
