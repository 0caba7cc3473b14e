package preflight

import (
	"context"
	"strings"

	"fermata/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Download free space", cfg.Paths.DownloadDir, cfg.SizeBudgetBytes()),
	}

	if strings.TrimSpace(cfg.Recognition.APIToken) == "" {
		results = append(results, Result{
			Name:   "Recognition",
			Passed: true,
			Detail: "Disabled (no API token)",
		})
	} else {
		results = append(results, Result{
			Name:   "Recognition",
			Passed: true,
			Detail: "API token configured",
		})
	}

	return results
}

// Failed returns the names of checks that did not pass.
func Failed(results []Result) []string {
	var names []string
	for _, result := range results {
		if !result.Passed {
			names = append(names, result.Name)
		}
	}
	return names
}
