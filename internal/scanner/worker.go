package scanner

import (
	"context"
	"sync"

	"github.com/maxvaer/keycrack/internal/engine"
	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/target"
)

// checkEvery is how many candidates a worker tries between pause,
// cancellation and progress checks.
const checkEvery = 1024

// partial is one worker's share of a target scan.
type partial struct {
	matches  []MatchRecord
	explored uint64
	failures uint64
	failure  error
	err      error
}

// runSpans scans each span on its own goroutine and returns the partials
// in span order. engines[i] serves spans[i].
func (s *Scanner) runSpans(ctx context.Context, tg target.Target, spec *keyspace.Spec, spans []keyspace.Span, engines []*engine.Engine) []partial {
	parts := make([]partial, len(spans))
	for i, sp := range spans {
		logging.Debugf("Span %d/%d: ordinals %d-%d (%d candidates)", i+1, len(spans), sp.Start+1, sp.End, sp.Len())
	}
	if len(spans) == 1 {
		parts[0] = s.scanSpan(ctx, tg, spec, spans[0], engines[0])
		return parts
	}

	var wg sync.WaitGroup
	for i := range spans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parts[i] = s.scanSpan(ctx, tg, spec, spans[i], engines[i])
		}()
	}
	wg.Wait()
	return parts
}

// scanSpan tries every candidate in span. It never stops on a match.
func (s *Scanner) scanSpan(ctx context.Context, tg target.Target, spec *keyspace.Spec, span keyspace.Span, eng *engine.Engine) partial {
	var p partial
	var reported uint64
	flush := func() {
		if s.cfg.OnProgress != nil && p.explored > reported {
			s.cfg.OnProgress(p.explored - reported)
			reported = p.explored
		}
	}
	defer flush()

	it := spec.IteratorRange(span)
	for it.Next() {
		if p.explored%checkEvery == 0 {
			flush()
			if s.cfg.Pauser != nil {
				s.cfg.Pauser.Wait()
			}
			if err := ctx.Err(); err != nil {
				p.err = err
				return p
			}
		}

		candidate := it.Candidate()
		computed, ok, err := eng.Compare(candidate, tg.Salt, tg.Raw)
		p.explored++
		if err != nil {
			p.failures++
			if p.failure == nil {
				p.failure = err
			}
		}
		if ok {
			p.matches = append(p.matches, MatchRecord{
				Candidate: candidate,
				Digest:    computed,
				Ordinal:   it.Ordinal(),
				Found:     true,
			})
		}
		if s.cfg.OnAttempt != nil {
			s.cfg.OnAttempt(Attempt{
				Target:    tg.Raw,
				Ordinal:   it.Ordinal(),
				Candidate: candidate,
				Digest:    computed,
				Match:     ok,
				Err:       err,
			})
		}
	}
	return p
}
