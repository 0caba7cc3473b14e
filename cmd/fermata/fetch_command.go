package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fermata/internal/assembly"
	"fermata/internal/cascade"
	"fermata/internal/config"
	"fermata/internal/deps"
	"fermata/internal/fileutil"
	"fermata/internal/history"
	"fermata/internal/logging"
	"fermata/internal/media/ffprobe"
	"fermata/internal/notifications"
	"fermata/internal/preflight"
	"fermata/internal/progress"
	"fermata/internal/ratelimit"
	"fermata/internal/services"
	"fermata/internal/services/ffmpeg"
	"fermata/internal/services/qobuzdl"
	"fermata/internal/workspace"
)

func newFetchCommand(cmdCtx *commandContext) *cobra.Command {
	var tierLabel string
	var requester string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "fetch URL [URL...]",
		Short: "Download tracks through the quality cascade and deliver them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner, err := newFetchRunner(cfg, tierLabel)
			if err != nil {
				return err
			}
			defer runner.close()

			if !skipPreflight {
				if err := runner.preflight(ctx); err != nil {
					return err
				}
			}

			limiter := ratelimit.New(time.Duration(cfg.RateLimit.CooldownSeconds) * time.Second)
			out := cmd.OutOrStdout()

			var failures int
			for _, url := range args {
				if ok, wait := limiter.TryAcquire(requester); !ok {
					fmt.Fprintf(out, "Cooling down %s for %s\n", requester, wait.Round(time.Second))
					select {
					case <-time.After(wait):
					case <-ctx.Done():
						return ctx.Err()
					}
					limiter.TryAcquire(requester)
				}
				if err := runner.run(ctx, out, url, requester); err != nil {
					if ctx.Err() != nil {
						return err
					}
					failures++
					fmt.Fprintf(out, "Failed: %s (%v)\n", url, err)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d downloads failed", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tierLabel, "tier", "", "Pin a single quality tier by label instead of cascading")
	cmd.Flags().StringVar(&requester, "requester", "", "Requester name for per-user rate limiting")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before fetching")
	return cmd
}

// fetchRunner holds the wired pipeline for one CLI invocation.
type fetchRunner struct {
	cfg        *config.Config
	controller *cascade.Controller
	notifier   notifications.Service
	store      *history.Store
	tierIndex  int
}

func newFetchRunner(cfg *config.Config, tierLabel string) (*fetchRunner, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise logging: %w", err)
	}

	fetcher, err := qobuzdl.New(cfg.Downloader.Binary, cfg.Downloader.FetchTimeout)
	if err != nil {
		return nil, err
	}
	encoder, err := ffmpeg.New(cfg.Delivery.FFmpegBinary)
	if err != nil {
		return nil, err
	}
	probe := ffprobe.NewCLI(cfg.Delivery.FFprobeBinary)
	assembler := assembly.New(probe, encoder, logger)

	tiers := cascade.TiersFromConfig(cfg.Downloader.Tiers)
	tierIndex := -1
	if label := strings.TrimSpace(tierLabel); label != "" {
		for i, tier := range tiers {
			if tier.Label == label {
				tierIndex = i
				break
			}
		}
		if tierIndex < 0 {
			return nil, services.Wrap(services.ErrValidation, "fetch", "tier",
				fmt.Sprintf("unknown tier %q", label), nil)
		}
	}

	gate := cascade.Gate{BudgetBytes: cfg.SizeBudgetBytes(), MarginBytes: cfg.SafetyMarginBytes()}
	controller, err := cascade.New(tiers, fetcher, gate, encoder, cfg.Delivery.TranscodeBitrate, assembler, logger)
	if err != nil {
		return nil, err
	}

	runner := &fetchRunner{
		cfg:        cfg,
		controller: controller,
		notifier:   notifications.NewService(cfg),
		tierIndex:  tierIndex,
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		runner.store = store
	}
	return runner, nil
}

func (r *fetchRunner) close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

func (r *fetchRunner) preflight(ctx context.Context) error {
	if missing := deps.MissingRequired(preflight.CheckSystemDeps(r.cfg)); len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "fetch", "preflight",
			fmt.Sprintf("missing required binaries: %s", strings.Join(missing, ", ")), nil)
	}
	if failed := preflight.Failed(preflight.RunAll(ctx, r.cfg)); len(failed) > 0 {
		return services.Wrap(services.ErrConfiguration, "fetch", "preflight",
			fmt.Sprintf("environment checks failed: %s", strings.Join(failed, ", ")), nil)
	}
	return nil
}

func (r *fetchRunner) run(ctx context.Context, out io.Writer, url, requester string) error {
	ws, err := workspace.Acquire(r.cfg.Paths.DownloadDir)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Release() }()

	runCtx := services.WithRequestID(ctx, ws.ID)
	fmt.Fprintf(out, "Fetching %s\n", url)

	sink := newProgressPrinter(out)
	outcome := r.controller.Execute(runCtx, cascade.Request{URL: url, TierIndex: r.tierIndex}, filepath.Join(ws.Dir, "attempt"), sink.observe)
	sink.finish()

	switch outcome.Status {
	case cascade.StatusSuccess:
		return r.deliver(runCtx, out, url, requester, outcome)
	case cascade.StatusExhausted:
		_ = r.notifier.NotifyExhausted(runCtx, url)
		if outcome.Err != nil {
			return fmt.Errorf("every quality tier failed: %w", outcome.Err)
		}
		return fmt.Errorf("every quality tier failed for %s", url)
	default:
		_ = r.notifier.NotifyError(runCtx, outcome.Err, "fetch")
		return outcome.Err
	}
}

func (r *fetchRunner) deliver(ctx context.Context, out io.Writer, url, requester string, outcome cascade.Outcome) error {
	dest := fileutil.UniquePath(filepath.Join(r.cfg.Paths.OutputDir, outcome.Filename))
	if err := fileutil.CopyFileVerified(outcome.Audio.Path, dest); err != nil {
		_ = r.notifier.NotifyError(ctx, err, "delivery")
		return fmt.Errorf("deliver %s: %w", outcome.Filename, err)
	}
	if err := fileutil.SafeRemove(outcome.Audio.Path); err != nil {
		return fmt.Errorf("remove workspace copy: %w", err)
	}

	fmt.Fprintf(out, "Delivered %s (%s", filepath.Base(dest), outcome.TierLabel)
	if outcome.Transcoded {
		fmt.Fprint(out, ", transcoded")
	}
	fmt.Fprintln(out, ")")

	if r.store != nil {
		title := strings.TrimSpace(outcome.Metadata.Artist + " - " + outcome.Metadata.Title)
		if _, err := r.store.Record(ctx, history.Entry{
			URL:        url,
			Requester:  requester,
			Title:      title,
			Filename:   filepath.Base(dest),
			TierLabel:  outcome.TierLabel,
			Transcoded: outcome.Transcoded,
			SizeBytes:  outcome.Audio.SizeBytes,
		}); err != nil {
			fmt.Fprintf(out, "Warning: history not recorded (%v)\n", err)
		}
	}

	_ = r.notifier.NotifyDelivered(ctx, filepath.Base(dest), outcome.TierLabel, outcome.Transcoded)
	return nil
}

// progressPrinter renders debounced percent updates on a single console line.
type progressPrinter struct {
	out     io.Writer
	touched bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

func (p *progressPrinter) observe(event progress.Event) {
	p.touched = true
	if !event.Monotonic {
		fmt.Fprintf(p.out, "\r%-20s", "restarting")
		return
	}
	fmt.Fprintf(p.out, "\r%5.1f%%%14s", event.Percent, "")
}

func (p *progressPrinter) finish() {
	if p.touched {
		fmt.Fprint(p.out, "\n")
	}
}
