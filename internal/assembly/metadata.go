package assembly

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"fermata/internal/media/ffprobe"
)

// Sentinel values substituted for metadata fields that cannot be derived.
const (
	UnknownField = "Unknown"
	UnknownYear  = "0000"
)

// TrackMetadata describes the deliverable track. Fields are never empty;
// underivable values hold sentinels.
type TrackMetadata struct {
	Artist             string
	Title              string
	Album              string
	Year               string
	QualityDescription string
}

// folderPattern matches release directories like
// "Artist X - Album Y (2021) [24B-96kHz]".
var folderPattern = regexp.MustCompile(`^(.+?)\s+-\s+(.+?)\s+\((\d{4})\)`)

// trackFilePattern strips a leading track-number prefix like "03. " or "12 - ".
var trackFilePattern = regexp.MustCompile(`^\d{1,3}[.\-\s]+\s*`)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// ExtractMetadata derives track metadata for the audio file at path, using
// the inspector's embedded tags first and the path heuristic as fallback.
// It never returns an error; a probe failure simply degrades to the
// heuristic, and fully underivable fields become sentinels.
func ExtractMetadata(ctx context.Context, inspector ffprobe.Inspector, path string) TrackMetadata {
	meta := TrackMetadata{
		Artist: UnknownField,
		Title:  UnknownField,
		Album:  UnknownField,
		Year:   UnknownYear,
	}

	if inspector != nil {
		if result, err := inspector.Inspect(ctx, path); err == nil {
			applyTags(&meta, result)
		}
	}

	if meta.Title == UnknownField {
		applyPathHeuristic(&meta, path)
	}
	return meta
}

func applyTags(meta *TrackMetadata, result ffprobe.Result) {
	if v := result.Tag("artist", "album_artist"); v != "" {
		meta.Artist = v
	}
	if v := result.Tag("title"); v != "" {
		meta.Title = v
	}
	if v := result.Tag("album"); v != "" {
		meta.Album = v
	}
	if v := result.Tag("date", "year"); v != "" {
		if match := yearPattern.FindString(v); match != "" {
			meta.Year = match
		}
	}
}

func applyPathHeuristic(meta *TrackMetadata, path string) {
	dir := filepath.Base(filepath.Dir(path))
	if match := folderPattern.FindStringSubmatch(dir); match != nil {
		if meta.Artist == UnknownField {
			meta.Artist = strings.TrimSpace(match[1])
		}
		if meta.Album == UnknownField {
			meta.Album = strings.TrimSpace(match[2])
		}
		if meta.Year == UnknownYear {
			meta.Year = match[3]
		}
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	title := strings.TrimSpace(trackFilePattern.ReplaceAllString(stem, ""))
	if title != "" {
		meta.Title = title
	}
}
