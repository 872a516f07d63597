package scanner

import (
	"github.com/maxvaer/keycrack/internal/timing"
)

// State is where a target ended up in the ExtractingSalt -> Enumerating ->
// Exhausted progression.
type State string

const (
	// StateExhausted means every candidate in the keyspace was tried.
	StateExhausted State = "exhausted"
	// StateSkipped means the target was rejected before enumeration.
	StateSkipped State = "skipped"
	// StateInterrupted means the context was cancelled mid-enumeration.
	StateInterrupted State = "interrupted"
)

// Attempt is the per-candidate diagnostic passed to Config.OnAttempt.
type Attempt struct {
	Target    string
	Ordinal   uint64
	Candidate string
	Digest    string
	Match     bool
	Err       error
}

// MatchRecord describes the outcome for one target. Ordinal is the 1-based
// position of Candidate in odometer order and doubles as the number of
// candidates explored when the match was hit.
type MatchRecord struct {
	Candidate string `json:"candidate"`
	Digest    string `json:"digest"`
	Ordinal   uint64 `json:"ordinal"`
	Found     bool   `json:"found"`
}

// TargetResult holds the outcome of scanning one target.
type TargetResult struct {
	Target    string
	Algorithm string
	State     State
	Matches   []MatchRecord // every equal candidate, in ordinal order
	Explored  uint64
	Failures  uint64 // candidates whose digest could not be computed
	Failure   error  // first primitive failure, if any
	Elapsed   timing.Elapsed
	Err       error
}

// Found reports whether at least one candidate matched.
func (r *TargetResult) Found() bool { return len(r.Matches) > 0 }

// Record returns the first match, or a record with Found=false.
func (r *TargetResult) Record() MatchRecord {
	if len(r.Matches) == 0 {
		return MatchRecord{}
	}
	return r.Matches[0]
}

// Run is the outcome of a multi-target scan.
type Run struct {
	Keyspace string
	Size     uint64
	Targets  []TargetResult
	Elapsed  timing.Elapsed
}

// Explored is the number of candidates tried across all targets.
func (r *Run) Explored() uint64 {
	var n uint64
	for i := range r.Targets {
		n += r.Targets[i].Explored
	}
	return n
}

// Recovered is the number of targets with at least one match.
func (r *Run) Recovered() int {
	n := 0
	for i := range r.Targets {
		if r.Targets[i].Found() {
			n++
		}
	}
	return n
}
