package config

import (
	"errors"
	"fmt"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+k$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownloader(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateDownloader() error {
	if len(c.Downloader.Tiers) == 0 {
		return errors.New("downloader.tiers must list at least one quality tier")
	}
	seen := make(map[string]struct{}, len(c.Downloader.Tiers))
	for i, tier := range c.Downloader.Tiers {
		if tier.Label == "" {
			return fmt.Errorf("downloader.tiers[%d].label must be set", i)
		}
		if tier.Quality == "" {
			return fmt.Errorf("downloader.tiers[%d].quality must be set", i)
		}
		if _, dup := seen[tier.Label]; dup {
			return fmt.Errorf("downloader.tiers: duplicate label %q", tier.Label)
		}
		seen[tier.Label] = struct{}{}
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.SizeBudgetMiB <= 0 {
		return errors.New("delivery.size_budget_mib must be positive")
	}
	if c.Delivery.SafetyMarginMiB < 0 {
		return errors.New("delivery.safety_margin_mib must not be negative")
	}
	if c.Delivery.SafetyMarginMiB >= c.Delivery.SizeBudgetMiB {
		return errors.New("delivery.safety_margin_mib must be smaller than delivery.size_budget_mib")
	}
	if !bitratePattern.MatchString(c.Delivery.TranscodeBitrate) {
		return fmt.Errorf("delivery.transcode_bitrate %q must look like \"320k\"", c.Delivery.TranscodeBitrate)
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.CooldownSeconds < 0 {
		return errors.New("ratelimit.cooldown_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
