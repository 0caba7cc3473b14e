package assembly

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fermata/internal/artifact"
	"fermata/internal/media/ffprobe"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) EmbedCover(context.Context, string, string) error {
	f.calls++
	return f.err
}

func audioArtifact(t *testing.T, dir, name string) *artifact.Artifact {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &artifact.Artifact{Path: path, Kind: artifact.KindAudio, SizeBytes: 5}
}

func TestFinalizeEmbedsCoverOnce(t *testing.T) {
	dir := t.TempDir()
	audio := audioArtifact(t, dir, "01. Song.flac")
	cover := &artifact.Artifact{Path: filepath.Join(dir, "cover.jpg"), Kind: artifact.KindCover}

	embedder := &fakeEmbedder{}
	inspector := fakeInspector{result: taggedResult(map[string]string{"TITLE": "Song", "ARTIST": "Band"})}
	asm := New(inspector, embedder, nil)
	lc := artifact.NewLifecycle(nil)

	meta, filename := asm.Finalize(context.Background(), audio, cover, "cd", lc)
	if embedder.calls != 1 {
		t.Fatalf("embed calls = %d", embedder.calls)
	}
	if meta.QualityDescription != "cd" {
		t.Fatalf("quality = %q", meta.QualityDescription)
	}
	if filename != "Band - Song (Unknown, 0000).flac" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestFinalizeSkipsEmbedWhenAlreadyAttached(t *testing.T) {
	dir := t.TempDir()
	audio := audioArtifact(t, dir, "01. Song.flac")
	cover := &artifact.Artifact{Path: filepath.Join(dir, "cover.jpg"), Kind: artifact.KindCover}

	embedder := &fakeEmbedder{}
	result := taggedResult(map[string]string{"TITLE": "Song"})
	result.Streams = []ffprobe.Stream{{CodecType: "video", Disposition: map[string]int{"attached_pic": 1}}}
	asm := New(fakeInspector{result: result}, embedder, nil)

	asm.Finalize(context.Background(), audio, cover, "cd", artifact.NewLifecycle(nil))
	if embedder.calls != 0 {
		t.Fatalf("embed should be skipped, calls = %d", embedder.calls)
	}
}

func TestFinalizeSurvivesEmbedFailure(t *testing.T) {
	dir := t.TempDir()
	audio := audioArtifact(t, dir, "01. Song.flac")
	cover := &artifact.Artifact{Path: filepath.Join(dir, "cover.jpg"), Kind: artifact.KindCover}

	embedder := &fakeEmbedder{err: errors.New("remux failed")}
	asm := New(fakeInspector{err: errors.New("no probe")}, embedder, nil)

	meta, filename := asm.Finalize(context.Background(), audio, cover, "mp3-320", artifact.NewLifecycle(nil))
	if filename == "" {
		t.Fatal("filename should still be derived")
	}
	if meta.Title != "Song" {
		t.Fatalf("title = %q", meta.Title)
	}
}

func TestFinalizeIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	audio := audioArtifact(t, dir, "03. Track Z.flac")
	inspector := fakeInspector{result: taggedResult(map[string]string{
		"ARTIST": "Artist X", "TITLE": "Track Z", "ALBUM": "Album Y", "DATE": "2021",
	})}
	asm := New(inspector, nil, nil)

	_, first := asm.Finalize(context.Background(), audio, nil, "cd", artifact.NewLifecycle(nil))
	_, second := asm.Finalize(context.Background(), audio, nil, "cd", artifact.NewLifecycle(nil))
	if first != second {
		t.Fatalf("filenames differ: %q vs %q", first, second)
	}
	if first != "Artist X - Track Z (Album Y, 2021).flac" {
		t.Fatalf("filename = %q", first)
	}
}
