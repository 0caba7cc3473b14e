package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fermata/internal/artifact"
	"fermata/internal/assembly"
	"fermata/internal/logging"
	"fermata/internal/progress"
	"fermata/internal/services"
	"fermata/internal/services/qobuzdl"
)

// Request describes one download to drive to completion.
type Request struct {
	URL string
	// TierIndex pins a single tier when >= 0; -1 cascades the full ladder.
	TierIndex int
}

// Transcoder is the encode-down surface the controller needs from ffmpeg.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath, bitrate string) error
}

// Finalizer prepares the chosen artifact for delivery. Implemented by
// assembly.Assembler.
type Finalizer interface {
	Finalize(ctx context.Context, audio *artifact.Artifact, cover *artifact.Artifact, qualityDescription string, lifecycle *artifact.Lifecycle) (meta assembly.TrackMetadata, filename string)
}

// Controller owns the quality ladder and the per-tier decision loop.
type Controller struct {
	tiers      []Tier
	fetcher    qobuzdl.Fetcher
	gate       Gate
	transcoder Transcoder
	bitrate    string
	assembler  Finalizer
	logger     *slog.Logger
}

// New constructs a controller. The tier slice must already be ordered best
// fidelity first.
func New(tiers []Tier, fetcher qobuzdl.Fetcher, gate Gate, transcoder Transcoder, bitrate string, assembler Finalizer, logger *slog.Logger) (*Controller, error) {
	if len(tiers) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "cascade", "new", "at least one quality tier required", nil)
	}
	if fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "cascade", "new", "fetcher required", nil)
	}
	return &Controller{
		tiers:      tiers,
		fetcher:    fetcher,
		gate:       gate,
		transcoder: transcoder,
		bitrate:    bitrate,
		assembler:  assembler,
		logger:     logging.NewComponentLogger(logger, "cascade"),
	}, nil
}

// Execute drives the cascade inside workDir, which must be exclusive to this
// run. Progress events are relayed to sink when non-nil. Whatever the
// outcome, every file created during the run except the returned artifact is
// deleted before Execute returns.
func (c *Controller) Execute(ctx context.Context, req Request, workDir string, sink progress.Sink) Outcome {
	tiers, err := c.selectTiers(req)
	if err != nil {
		return Outcome{Status: StatusFatal, Err: err}
	}

	lifecycle := artifact.NewLifecycle(c.logger)
	defer lifecycle.CleanupAll()

	for i, tier := range tiers {
		if ctx.Err() != nil {
			return Outcome{Status: StatusFatal, Err: services.Wrap(services.ErrTimeout, "cascade", "execute", "run cancelled", ctx.Err())}
		}
		last := i == len(tiers)-1
		tierCtx := services.WithTier(ctx, tier.Label)
		log := logging.WithContext(tierCtx, c.logger)

		if err := clearDir(workDir); err != nil {
			return Outcome{Status: StatusFatal, Err: fmt.Errorf("prepare attempt directory: %w", err)}
		}

		log.Info("attempting tier", logging.String("url", req.URL), logging.String("quality", tier.Quality))
		if err := c.fetcher.Fetch(tierCtx, req.URL, tier.Quality, workDir, sink); err != nil {
			if ctx.Err() != nil {
				return Outcome{Status: StatusFatal, Err: services.Wrap(services.ErrTimeout, "cascade", "execute", "run cancelled", err)}
			}
			if services.IsRecoverable(err) {
				log.Warn("tier download failed, advancing", logging.Error(err))
				continue
			}
			return Outcome{Status: StatusFatal, Err: err}
		}

		audio, cover, err := artifact.Discover(workDir)
		if err != nil {
			return Outcome{Status: StatusFatal, Err: fmt.Errorf("discover attempt output: %w", err)}
		}
		if audio == nil || audio.SizeBytes == 0 {
			// A run that produced nothing, or an empty file, is a soft
			// failure for this tier only.
			log.Warn("tier produced no usable artifact, advancing")
			continue
		}

		lifecycle.Track(audio.Path)
		if cover != nil {
			lifecycle.Track(cover.Path)
		}
		log.Info("tier produced artifact",
			logging.String("path", audio.Path),
			logging.Int64("size_bytes", audio.SizeBytes),
			logging.Int64("limit_bytes", c.gate.Limit()),
			logging.Bool("cover", cover != nil))

		transcoded := false
		if !c.gate.Fits(audio.SizeBytes) {
			if !last {
				log.Info("artifact over budget, demoting to next tier")
				lifecycle.Remove(audio.Path)
				if cover != nil {
					lifecycle.Remove(cover.Path)
				}
				continue
			}
			replacement, err := c.transcodeDown(tierCtx, audio, lifecycle)
			if err != nil {
				log.Warn("forced transcode failed", logging.Error(err))
				return Outcome{Status: StatusExhausted, Err: err}
			}
			if !c.gate.Fits(replacement.SizeBytes) {
				log.Warn("transcoded artifact still over budget",
					logging.Int64("size_bytes", replacement.SizeBytes))
				return Outcome{Status: StatusExhausted}
			}
			audio = replacement
			transcoded = true
		}

		quality := tier.Label
		if transcoded {
			quality = tier.Label + " (transcoded)"
		}
		var meta assembly.TrackMetadata
		filename := filepath.Base(audio.Path)
		if c.assembler != nil {
			meta, filename = c.assembler.Finalize(tierCtx, audio, cover, quality, lifecycle)
		}

		if !lifecycle.Release(audio.Path) {
			return Outcome{Status: StatusFatal, Err: fmt.Errorf("deliverable %s was not tracked", audio.Path)}
		}
		log.Info("cascade satisfied",
			logging.String("filename", filename),
			logging.Bool("transcoded", transcoded))
		return Outcome{
			Status:        StatusSuccess,
			Audio:         audio,
			Metadata:      meta,
			Filename:      filename,
			TierLabel:     tier.Label,
			Transcoded:    transcoded,
			CoverEmbedded: cover != nil,
		}
	}

	return Outcome{Status: StatusExhausted}
}

func (c *Controller) selectTiers(req Request) ([]Tier, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, services.Wrap(services.ErrValidation, "cascade", "execute", "source URL required", nil)
	}
	if req.TierIndex < 0 {
		return c.tiers, nil
	}
	if req.TierIndex >= len(c.tiers) {
		return nil, services.Wrap(services.ErrValidation, "cascade", "execute",
			fmt.Sprintf("tier index %d out of range (have %d tiers)", req.TierIndex, len(c.tiers)), nil)
	}
	return c.tiers[req.TierIndex : req.TierIndex+1], nil
}

// transcodeDown invokes the encoder at most once per run; callers reach it
// only from the last tier.
func (c *Controller) transcodeDown(ctx context.Context, audio *artifact.Artifact, lifecycle *artifact.Lifecycle) (*artifact.Artifact, error) {
	if c.transcoder == nil {
		return nil, services.Wrap(services.ErrConfiguration, "cascade", "transcode", "no transcoder configured", nil)
	}
	ext := filepath.Ext(audio.Path)
	outputPath := strings.TrimSuffix(audio.Path, ext) + ".transcode.mp3"
	lifecycle.Track(outputPath)

	stepCtx := services.WithStep(ctx, "transcode")
	if err := c.transcoder.Transcode(stepCtx, audio.Path, outputPath, c.bitrate); err != nil {
		return nil, err
	}
	replacement := &artifact.Artifact{Path: outputPath, Kind: artifact.KindAudio}
	if err := replacement.Stat(); err != nil {
		return nil, fmt.Errorf("stat transcoded artifact: %w", err)
	}
	return replacement, nil
}

func clearDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
