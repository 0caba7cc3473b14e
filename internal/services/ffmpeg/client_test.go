package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fermata/internal/services"
)

type fakeRunner struct {
	args [][]string
	err  error
	// onRun lets tests simulate the side effects of a successful invocation.
	onRun func(args []string)
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string) error {
	f.args = append(f.args, args)
	if f.onRun != nil {
		f.onRun(args)
	}
	return f.err
}

func TestTranscodeArguments(t *testing.T) {
	runner := &fakeRunner{}
	client, err := New("ffmpeg", WithRunner(runner))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := client.Transcode(context.Background(), "/in/a.flac", "/in/a.mp3", "320k"); err != nil {
		t.Fatalf("transcode: %v", err)
	}
	joined := strings.Join(runner.args[0], " ")
	for _, want := range []string{"-i /in/a.flac", "-b:a 320k", "-c:v copy", "-id3v2_version 3", "/in/a.mp3"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
}

func TestTranscodeFailureIsExternalToolError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	client, err := New("ffmpeg", WithRunner(runner))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = client.Transcode(context.Background(), "in.flac", "out.mp3", "")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestEmbedCoverReplacesOriginalOnSuccess(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "track.flac")
	cover := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(audio, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cover, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{onRun: func(args []string) {
		// The remux "writes" its output path, the final argument.
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("remuxed"), 0o644); err != nil {
			t.Fatal(err)
		}
	}}
	client, err := New("ffmpeg", WithRunner(runner))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := client.EmbedCover(context.Background(), audio, cover); err != nil {
		t.Fatalf("embed: %v", err)
	}

	data, err := os.ReadFile(audio)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "remuxed" {
		t.Fatalf("audio content = %q, want remuxed output", data)
	}
	if _, err := os.Stat(EmbedTempPath(audio)); !os.IsNotExist(err) {
		t.Fatal("temp path should be gone after rename")
	}
}

func TestEmbedCoverLeavesOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(audio, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{err: errors.New("exit status 1")}
	client, err := New("ffmpeg", WithRunner(runner))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = client.EmbedCover(context.Background(), audio, filepath.Join(dir, "cover.jpg"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	data, readErr := os.ReadFile(audio)
	if readErr != nil || string(data) != "original" {
		t.Fatalf("original should be untouched, got %q, %v", data, readErr)
	}
}

func TestEmbedTempPathKeepsExtension(t *testing.T) {
	got := EmbedTempPath("/music/a b/track.flac")
	if filepath.Ext(got) != ".flac" {
		t.Fatalf("temp path %q must keep the audio extension", got)
	}
	if got == "/music/a b/track.flac" {
		t.Fatal("temp path must differ from the original")
	}
}
