// Package scanner drives exhaustive keyspace scans against one or more
// targets. A scan never short-circuits on a match: every candidate is
// hashed so the explored count always equals the keyspace size, which
// makes the match ordinal usable as a cost measure.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/maxvaer/keycrack/internal/digest"
	"github.com/maxvaer/keycrack/internal/engine"
	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/maxvaer/keycrack/internal/timing"
)

// Config holds options for a Scanner.
type Config struct {
	// Workers splits each target's keyspace into this many contiguous
	// spans. Values below 1 mean 1. Results are identical for any value.
	Workers int
	// Pauser gates workers between batches. nil = no pause support.
	Pauser *Pauser
	// OnAttempt receives every candidate in ordinal order. Setting it
	// forces a single worker.
	OnAttempt func(Attempt)
	// OnProgress receives explored-count deltas. It may be called from
	// several goroutines at once.
	OnProgress func(delta uint64)
	// OnTarget receives each target's result as ScanAll finishes it.
	OnTarget func(TargetResult)
	// NewHasher builds the digest primitive for an algorithm tag.
	// Defaults to digest.For.
	NewHasher func(tag string) (digest.Hasher, error)
}

// Scanner runs keyspace scans.
type Scanner struct {
	cfg Config
}

// New creates a Scanner.
func New(cfg Config) *Scanner {
	if cfg.NewHasher == nil {
		cfg.NewHasher = digest.For
	}
	return &Scanner{cfg: cfg}
}

func (s *Scanner) workers() int {
	if s.cfg.OnAttempt != nil || s.cfg.Workers < 1 {
		return 1
	}
	return s.cfg.Workers
}

// ScanTarget enumerates the whole keyspace against one target. Failures to
// parse the target or build its primitive are reported in the result's Err
// with State set to StateSkipped.
func (s *Scanner) ScanTarget(ctx context.Context, raw string, spec *keyspace.Spec) TargetResult {
	pausedBefore := s.pausedDuration()
	sw := timing.Start()
	res := TargetResult{Target: raw, State: StateSkipped}

	tg, err := target.Parse(raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.Algorithm = tg.Algorithm

	spans := spec.Partition(s.workers())
	engines := make([]*engine.Engine, len(spans))
	for i := range engines {
		h, err := s.cfg.NewHasher(tg.Algorithm)
		if err != nil {
			res.Err = fmt.Errorf("target %s: %w", tg.Short(), err)
			return res
		}
		engines[i] = engine.New(h)
	}
	logging.Debugf("Target %s: algorithm %s, hasher %s, salt %q", tg.Short(), tg.Algorithm, engines[0].Hasher().Name(), tg.Salt)

	res.State = StateExhausted
	for _, p := range s.runSpans(ctx, tg, spec, spans, engines) {
		res.Explored += p.explored
		res.Failures += p.failures
		res.Matches = append(res.Matches, p.matches...)
		if res.Failure == nil {
			res.Failure = p.failure
		}
		if p.err != nil && res.Err == nil {
			res.Err = p.err
			res.State = StateInterrupted
		}
	}
	res.Elapsed = sw.Stop(s.pausedDuration() - pausedBefore)
	return res
}

// ScanAll scans targets in order. A skipped target does not stop the run;
// cancellation does. The run's elapsed time is the sum of the per-target
// search times, so time spent paused or inside OnTarget is not counted.
func (s *Scanner) ScanAll(ctx context.Context, targets []string, spec *keyspace.Spec) Run {
	run := Run{Keyspace: spec.String(), Size: spec.Size()}

	for _, raw := range targets {
		res := s.ScanTarget(ctx, raw, spec)
		run.Targets = append(run.Targets, res)
		run.Elapsed = timing.Sum(run.Elapsed, res.Elapsed)
		if s.cfg.OnTarget != nil {
			s.cfg.OnTarget(res)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return run
}

func (s *Scanner) pausedDuration() time.Duration {
	if s.cfg.Pauser == nil {
		return 0
	}
	return s.cfg.Pauser.PausedDuration()
}
