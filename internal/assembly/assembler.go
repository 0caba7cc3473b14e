package assembly

import (
	"context"
	"log/slog"
	"path/filepath"

	"fermata/internal/artifact"
	"fermata/internal/logging"
	"fermata/internal/media/ffprobe"
	"fermata/internal/services/ffmpeg"
)

// CoverEmbedder is the remux surface the assembler needs from ffmpeg.
type CoverEmbedder interface {
	EmbedCover(ctx context.Context, audioPath, coverPath string) error
}

// Assembler finalizes a downloaded artifact: cover embedding, metadata, and
// the canonical display filename.
type Assembler struct {
	probe    ffprobe.Inspector
	embedder CoverEmbedder
	logger   *slog.Logger
}

// New constructs an assembler. probe and embedder may be nil in tests; a nil
// embedder skips cover embedding.
func New(probe ffprobe.Inspector, embedder CoverEmbedder, logger *slog.Logger) *Assembler {
	return &Assembler{
		probe:    probe,
		embedder: embedder,
		logger:   logging.NewComponentLogger(logger, "assembly"),
	}
}

// Finalize embeds the cover (when present and not already attached), derives
// metadata, and returns it with the canonical filename. Metadata gaps and
// embed failures degrade gracefully; both runs of Finalize on the same inputs
// produce the same filename.
func (a *Assembler) Finalize(ctx context.Context, audio *artifact.Artifact, cover *artifact.Artifact, qualityDescription string, lifecycle *artifact.Lifecycle) (TrackMetadata, string) {
	log := logging.WithContext(ctx, a.logger)

	var probed *ffprobe.Result
	if a.probe != nil {
		if result, err := a.probe.Inspect(ctx, audio.Path); err == nil {
			probed = &result
		} else {
			log.Warn("probe failed, falling back to path heuristic", logging.Error(err))
		}
	}

	if cover != nil && a.embedder != nil {
		alreadyEmbedded := probed != nil && probed.HasAttachedPicture()
		if alreadyEmbedded {
			log.Debug("cover already attached, skipping embed")
		} else {
			if lifecycle != nil {
				lifecycle.Track(ffmpeg.EmbedTempPath(audio.Path))
			}
			if err := a.embedder.EmbedCover(ctx, audio.Path, cover.Path); err != nil {
				log.Warn("cover embed failed, delivering without embedded art", logging.Error(err))
			} else {
				_ = audio.Stat()
			}
		}
	}

	meta := TrackMetadata{
		Artist: UnknownField,
		Title:  UnknownField,
		Album:  UnknownField,
		Year:   UnknownYear,
	}
	if probed != nil {
		applyTags(&meta, *probed)
	}
	if meta.Title == UnknownField {
		applyPathHeuristic(&meta, audio.Path)
	}
	meta.QualityDescription = qualityDescription

	filename := CanonicalFilename(meta, filepath.Ext(audio.Path))
	return meta, filename
}
