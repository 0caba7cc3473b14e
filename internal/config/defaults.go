package config

const (
	defaultDownloadDir          = "~/.local/share/fermata/downloads"
	defaultOutputDir            = "~/music"
	defaultLogDir               = "~/.local/share/fermata/logs"
	defaultDownloaderBinary     = "qobuz-dl"
	defaultFetchTimeout         = 900
	defaultSizeBudgetMiB        = 50
	defaultSafetyMarginMiB      = 2
	defaultTranscodeBitrate     = "320k"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultCooldownSeconds      = 30
	defaultRecognitionBaseURL   = "https://api.audd.io"
	defaultRecognitionTimeout   = 30
	defaultHistoryPath          = "~/.local/share/fermata/history.db"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// DefaultTiers returns the built-in quality ladder, best fidelity first.
// Quality identifiers match the downloader's --quality flag values.
func DefaultTiers() []Tier {
	return []Tier{
		{Label: "hires-192", Quality: "27"},
		{Label: "hires-96", Quality: "7"},
		{Label: "cd", Quality: "6"},
		{Label: "mp3-320", Quality: "5"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
		},
		Downloader: Downloader{
			Binary:       defaultDownloaderBinary,
			FetchTimeout: defaultFetchTimeout,
			Tiers:        DefaultTiers(),
		},
		Delivery: Delivery{
			SizeBudgetMiB:    defaultSizeBudgetMiB,
			SafetyMarginMiB:  defaultSafetyMarginMiB,
			TranscodeBitrate: defaultTranscodeBitrate,
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
		},
		RateLimit: RateLimit{
			CooldownSeconds: defaultCooldownSeconds,
		},
		Recognition: Recognition{
			BaseURL:        defaultRecognitionBaseURL,
			TimeoutSeconds: defaultRecognitionTimeout,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
