package deps

import "fermata/internal/config"

// Requirements returns the external binaries a configured pipeline needs.
// The downloader and ffmpeg are mandatory; ffprobe only degrades metadata
// extraction when missing, so it is reported as optional.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "Downloader",
			Command:     cfg.Downloader.Binary,
			Description: "Fetches tracks from the source catalogue",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Delivery.FFmpegBinary,
			Description: "Transcodes oversized artifacts and embeds cover art",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Delivery.FFprobeBinary,
			Description: "Reads stream tags for canonical file naming",
			Optional:    true,
		},
	}
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
