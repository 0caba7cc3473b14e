package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fermata/internal/preflight"
	"fermata/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Download directory", dir)
	if !result.Passed {
		t.Fatalf("writable temp dir should pass: %s", result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Download directory", filepath.Join(dir, "absent"))
	if result.Passed {
		t.Fatal("missing directory should fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result = preflight.CheckDirectoryAccess("Download directory", file)
	if result.Passed {
		t.Fatal("regular file should fail")
	}
}

func TestCheckFreeSpaceWithTinyBudget(t *testing.T) {
	result := preflight.CheckFreeSpace("Download free space", t.TempDir(), 1)
	if !result.Passed {
		t.Fatalf("one-byte budget should always pass: %s", result.Detail)
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("results = %d", len(results))
	}
	if failed := preflight.Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
}

func TestRunAllFlagsMissingDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("create output dir: %v", err)
	}
	cfg.Paths.DownloadDir = filepath.Join(testsupport.BaseDir(cfg), "absent")

	failed := preflight.Failed(preflight.RunAll(context.Background(), cfg))
	if len(failed) == 0 {
		t.Fatal("missing download dir should fail a check")
	}
}

func TestCheckSystemDepsWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	for _, status := range preflight.CheckSystemDeps(cfg) {
		if !status.Available {
			t.Fatalf("%s unavailable with stubs on PATH: %s", status.Name, status.Detail)
		}
	}
}
