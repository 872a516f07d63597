package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/maxvaer/keycrack/internal/config"
	"github.com/maxvaer/keycrack/internal/digest"
	"github.com/maxvaer/keycrack/internal/hook"
	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/output"
	"github.com/maxvaer/keycrack/internal/resume"
	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/maxvaer/keycrack/pkg/version"
)

// newHasher is swapped out by tests.
var newHasher = digest.For

// Run executes the full scan pipeline: resolve targets and keyspace, replay
// anything a resume file already covers, scan the rest and report.
func Run(ctx context.Context, opts *config.Options) error {
	// 1. Targets and keyspace.
	targets, err := resolveTargets(opts)
	if err != nil {
		return err
	}
	spec, err := keyspace.Parse(resolveMask(opts))
	if err != nil {
		return err
	}
	runID := uuid.NewString()

	// 2. Resume support.
	var resumeState *resume.State
	var replayed []scanner.TargetResult
	remaining := targets
	if opts.ResumeFile != "" {
		existing, err := resume.Load(opts.ResumeFile)
		if err != nil {
			return fmt.Errorf("loading resume file: %w", err)
		}
		if existing != nil {
			logging.Debugf("Resume file %s: run %s, keyspace %s (fingerprint %016x), compatible=%t",
				opts.ResumeFile, existing.RunID, existing.Keyspace, existing.Fingerprint, existing.Compatible(spec))
		} else {
			logging.Debugf("Resume file %s not found, starting a new run", opts.ResumeFile)
		}
		switch {
		case existing != nil && existing.Compatible(spec):
			resumeState = existing
			runID = existing.RunID
			remaining = resumeState.FilterRemaining(targets)
			for _, raw := range targets {
				if r, ok := resumeState.Result(raw); ok {
					replayed = append(replayed, r)
				}
			}
			logging.Infof("Resuming run %s: skipping %d already exhausted targets", runID, len(replayed))
		case existing != nil:
			logging.Warnf("Resume file %s was written for keyspace %s, starting over", opts.ResumeFile, existing.Keyspace)
			fallthrough
		default:
			resumeState = resume.New(opts.ResumeFile, runID, spec)
		}
	}

	// 3. Create output writer.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(output.RunInfo{
		RunID:    runID,
		Keyspace: spec.String(),
		Size:     spec.Size(),
		Targets:  len(targets),
	}); err != nil {
		return err
	}

	// 4. Print banner.
	if !opts.Quiet {
		printBanner(os.Stderr, opts, spec, len(targets))
	}

	for i := range replayed {
		if err := out.WriteTarget(&replayed[i]); err != nil {
			return err
		}
	}

	if len(remaining) == 0 {
		logging.Infof("All targets already exhausted")
		return finish(opts, out, scanner.Run{Keyspace: spec.String(), Size: spec.Size()}, replayed, resumeState)
	}

	// 5. Pause toggle, progress and hook runner.
	pauser, cleanup := startStdinToggle(opts.Quiet)
	defer cleanup()

	var paused func() time.Duration
	if pauser != nil {
		paused = pauser.PausedDuration
	}
	// Per-candidate lines already show progress.
	progress := output.NewProgress(os.Stderr, spec.Size()*uint64(len(remaining)), opts.Quiet || opts.Verbose, paused)

	var hookRunner *hook.Runner
	if opts.OnMatchCmd != "" {
		hookRunner = hook.NewRunner(opts.OnMatchCmd, opts.Quiet)
	}

	// 6. Scan.
	var writeErr error
	cfg := scanner.Config{
		Workers:    opts.Workers,
		Pauser:     pauser,
		OnProgress: progress.Add,
		NewHasher:  newHasher,
		OnTarget: func(r scanner.TargetResult) {
			progress.ClearLine()
			if err := out.WriteTarget(&r); err != nil && writeErr == nil {
				writeErr = err
			}
			progress.Redraw()

			if r.State == scanner.StateSkipped {
				logging.Warnf("Skipped %s: %v", r.Target, r.Err)
			}
			if hookRunner != nil {
				hookRunner.Run(&r)
			}
			if resumeState != nil {
				resumeState.MarkCompleted(r)
				if err := resumeState.Save(); err != nil {
					logging.Warnf("Saving resume state: %v", err)
				}
			}
		},
	}
	if opts.Verbose {
		cfg.OnAttempt = func(a scanner.Attempt) {
			if err := out.WriteAttempt(&a); err != nil && writeErr == nil {
				writeErr = err
			}
		}
	}

	progress.Start()
	run := scanner.New(cfg).ScanAll(ctx, remaining, spec)
	progress.Stop()

	if writeErr != nil {
		return writeErr
	}

	if ctx.Err() != nil {
		if resumeState != nil {
			logging.Warnf("Scan interrupted after %d candidates, progress saved to %s (resume with --resume-file)", progress.Completed(), opts.ResumeFile)
		} else {
			logging.Warnf("Scan interrupted after %d candidates", progress.Completed())
		}
		resumeState = nil // keep the file
	}

	return finish(opts, out, run, replayed, resumeState)
}

// finish writes the footer and optional summary for run plus any replayed
// results, then removes the resume file if one is given.
func finish(opts *config.Options, out output.Writer, run scanner.Run, replayed []scanner.TargetResult, resumeState *resume.State) error {
	stats := mergeStats(run, replayed)
	if err := out.WriteFooter(stats); err != nil {
		return err
	}

	if opts.Summary && !opts.Quiet {
		all := append(append([]scanner.TargetResult(nil), replayed...), run.Targets...)
		if err := output.PrintSummary(os.Stderr, all, run.Size); err != nil {
			return err
		}
	}

	// Clean up resume file on successful completion.
	if resumeState != nil {
		if err := resumeState.Remove(); err != nil && !os.IsNotExist(err) {
			logging.Warnf("Removing resume file: %v", err)
		}
	}
	return nil
}

// mergeStats counts replayed targets in the totals but leaves them out of
// the elapsed time and rate, which only cover this session's scanning.
func mergeStats(run scanner.Run, replayed []scanner.TargetResult) output.Stats {
	fresh := output.NewStats(&run)
	if len(replayed) == 0 {
		return fresh
	}
	merged := run
	merged.Targets = append(append([]scanner.TargetResult(nil), replayed...), run.Targets...)
	stats := output.NewStats(&merged)
	stats.CandidatesPerSec = fresh.CandidatesPerSec
	return stats
}

// resolveTargets builds the list of targets from -T, -l and --preset-targets.
func resolveTargets(opts *config.Options) ([]string, error) {
	targets := append([]string(nil), opts.Targets...)

	if opts.TargetsFile != "" {
		loaded, err := target.LoadGlob(opts.TargetsFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, loaded...)
	}

	if opts.PresetTargets != "" {
		preset, err := target.Preset(opts.PresetTargets)
		if err != nil {
			return nil, err
		}
		targets = append(targets, preset...)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified (-T, -l, or --preset-targets)")
	}
	return targets, nil
}

// resolveMask picks --mask, else the keyspace matching --preset-targets,
// else two-initial.
func resolveMask(opts *config.Options) string {
	switch {
	case opts.Mask != "":
		return opts.Mask
	case opts.PresetTargets != "":
		return opts.PresetTargets
	default:
		return "two-initial"
	}
}

func createWriter(opts *config.Options) (output.Writer, error) {
	w, err := output.New(opts.OutputFormat, opts.OutputFile, opts.NoColor, opts.Quiet)
	if err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		return output.NewSortedWriter(w, opts.SortBy), nil
	}
	return w, nil
}

func printBanner(w io.Writer, opts *config.Options, spec *keyspace.Spec, targetCount int) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	label := lipgloss.NewStyle().Faint(true)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	if opts.NoColor {
		title, label, value = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	workers := opts.Workers
	if opts.Verbose || workers < 1 {
		workers = 1
	}

	rule := label.Render("  ──────────────────────────────────────")
	fmt.Fprintf(w, "\n  %s %s\n", title.Render("keycrack"), label.Render("v"+version.Version))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s     %s\n", label.Render("Keyspace:"), value.Render(spec.String()))
	fmt.Fprintf(w, "  %s   %s\n", label.Render("Candidates:"), value.Render(fmt.Sprintf("%d per target", spec.Size())))
	fmt.Fprintf(w, "  %s      %s\n", label.Render("Targets:"), value.Render(fmt.Sprintf("%d", targetCount)))
	fmt.Fprintf(w, "  %s      %s\n", label.Render("Workers:"), value.Render(fmt.Sprintf("%d", workers)))
	if opts.ResumeFile != "" {
		fmt.Fprintf(w, "  %s       %s\n", label.Render("Resume:"), value.Render(opts.ResumeFile))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
