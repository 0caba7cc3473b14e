package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestCleanupAllDeletesTracked(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "track.flac"))
	b := writeFile(t, filepath.Join(dir, "cover.jpg"))

	lc := NewLifecycle(nil)
	lc.Track(a)
	lc.Track(b)
	lc.CleanupAll()

	for _, path := range []string{a, b} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be deleted", path)
		}
	}
	if lc.Tracked() != 0 {
		t.Fatalf("delete-set should be empty, has %d", lc.Tracked())
	}
}

func TestReleasedArtifactSurvives(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, filepath.Join(dir, "keep.mp3"))
	drop := writeFile(t, filepath.Join(dir, "drop.flac"))

	lc := NewLifecycle(nil)
	lc.Track(keep)
	lc.Track(drop)
	if !lc.Release(keep) {
		t.Fatal("release should report the path was tracked")
	}
	lc.CleanupAll()

	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("released artifact deleted: %v", err)
	}
	if _, err := os.Stat(drop); !os.IsNotExist(err) {
		t.Fatal("tracked artifact should be deleted")
	}
}

func TestCleanupIsIdempotentAndToleratesMissingFiles(t *testing.T) {
	lc := NewLifecycle(nil)
	lc.Track(filepath.Join(t.TempDir(), "never-created.flac"))
	lc.CleanupAll()
	lc.CleanupAll()
}

func TestRemoveDeletesImmediatelyAndUntracks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "oversized.flac"))
	lc := NewLifecycle(nil)
	lc.Track(path)
	lc.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("remove should delete the file")
	}
	if lc.Tracked() != 0 {
		t.Fatalf("tracked = %d, want 0", lc.Tracked())
	}
	lc.CleanupAll()
}

func TestRemoveUntrackedPathIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "kept.flac"))
	lc := NewLifecycle(nil)
	lc.Remove(path)
	if _, err := os.Stat(path); err != nil {
		t.Fatal("untracked file must not be deleted")
	}
}

func TestReleaseUnknownPath(t *testing.T) {
	lc := NewLifecycle(nil)
	if lc.Release("/tmp/unknown.flac") {
		t.Fatal("release of untracked path should report false")
	}
}

func TestTrackSamePathTwiceDeletesOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "dup.wav"))
	lc := NewLifecycle(nil)
	lc.Track(path)
	lc.Track(path)
	if lc.Tracked() != 1 {
		t.Fatalf("tracked = %d, want 1", lc.Tracked())
	}
	lc.CleanupAll()
}
