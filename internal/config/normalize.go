package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and trims free-form
// string fields so validation sees canonical values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DownloadDir, err = expandPath(strings.TrimSpace(c.Paths.DownloadDir)); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.Downloader.Binary = strings.TrimSpace(c.Downloader.Binary)
	if c.Downloader.Binary == "" {
		c.Downloader.Binary = defaultDownloaderBinary
	}
	if c.Downloader.FetchTimeout <= 0 {
		c.Downloader.FetchTimeout = defaultFetchTimeout
	}
	if len(c.Downloader.Tiers) == 0 {
		c.Downloader.Tiers = DefaultTiers()
	}
	for i := range c.Downloader.Tiers {
		c.Downloader.Tiers[i].Label = strings.TrimSpace(c.Downloader.Tiers[i].Label)
		c.Downloader.Tiers[i].Quality = strings.TrimSpace(c.Downloader.Tiers[i].Quality)
	}

	c.Delivery.TranscodeBitrate = strings.TrimSpace(c.Delivery.TranscodeBitrate)
	if c.Delivery.TranscodeBitrate == "" {
		c.Delivery.TranscodeBitrate = defaultTranscodeBitrate
	}
	c.Delivery.FFmpegBinary = strings.TrimSpace(c.Delivery.FFmpegBinary)
	if c.Delivery.FFmpegBinary == "" {
		c.Delivery.FFmpegBinary = defaultFFmpegBinary
	}
	c.Delivery.FFprobeBinary = strings.TrimSpace(c.Delivery.FFprobeBinary)
	if c.Delivery.FFprobeBinary == "" {
		c.Delivery.FFprobeBinary = defaultFFprobeBinary
	}

	c.Recognition.APIToken = strings.TrimSpace(c.Recognition.APIToken)
	if c.Recognition.APIToken == "" {
		c.Recognition.APIToken = strings.TrimSpace(os.Getenv("AUDD_API_TOKEN"))
	}
	c.Recognition.BaseURL = strings.TrimRight(strings.TrimSpace(c.Recognition.BaseURL), "/")
	if c.Recognition.BaseURL == "" {
		c.Recognition.BaseURL = defaultRecognitionBaseURL
	}
	if c.Recognition.TimeoutSeconds <= 0 {
		c.Recognition.TimeoutSeconds = defaultRecognitionTimeout
	}

	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return err
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
