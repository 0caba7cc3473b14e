package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Downloader.Tiers) == 0 {
		t.Fatal("default tiers missing")
	}
	if cfg.Downloader.Tiers[0].Label != "hires-192" {
		t.Fatalf("tier order changed: %q first", cfg.Downloader.Tiers[0].Label)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Delivery.SizeBudgetMiB != defaultSizeBudgetMiB {
		t.Fatalf("budget = %d", cfg.Delivery.SizeBudgetMiB)
	}
}

func TestLoadParsesTiersAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
download_dir = "` + dir + `/dl"
output_dir = "` + dir + `/out"
log_dir = "` + dir + `/logs"

[[downloader.tiers]]
label = "cd"
quality = "6"

[[downloader.tiers]]
label = "mp3-320"
quality = "5"

[delivery]
size_budget_mib = 48
safety_margin_mib = 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("config file should be detected")
	}
	if got := len(cfg.Downloader.Tiers); got != 2 {
		t.Fatalf("tiers = %d, want 2", got)
	}
	if cfg.Downloader.Tiers[0].Quality != "6" {
		t.Fatalf("first tier quality = %q", cfg.Downloader.Tiers[0].Quality)
	}
	if cfg.SizeBudgetBytes() != 48*1024*1024 {
		t.Fatalf("budget bytes = %d", cfg.SizeBudgetBytes())
	}
	if !filepath.IsAbs(cfg.Paths.DownloadDir) {
		t.Fatalf("download dir not absolute: %q", cfg.Paths.DownloadDir)
	}
}

func TestValidateRejectsDuplicateTierLabels(t *testing.T) {
	cfg := Default()
	cfg.Downloader.Tiers = []Tier{{Label: "cd", Quality: "6"}, {Label: "cd", Quality: "5"}}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate label") {
		t.Fatalf("expected duplicate label error, got %v", err)
	}
}

func TestValidateRejectsMarginAtOrAboveBudget(t *testing.T) {
	cfg := Default()
	cfg.Delivery.SizeBudgetMiB = 10
	cfg.Delivery.SafetyMarginMiB = 10
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected margin validation error")
	}
}

func TestValidateRejectsBadBitrate(t *testing.T) {
	cfg := Default()
	cfg.Delivery.TranscodeBitrate = "fast"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected bitrate validation error")
	}
}

func TestRecognitionTokenEnvFallback(t *testing.T) {
	t.Setenv("AUDD_API_TOKEN", "env-token")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Recognition.APIToken != "env-token" {
		t.Fatalf("token = %q", cfg.Recognition.APIToken)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[downloader]") {
		t.Fatal("sample missing downloader section")
	}
}
