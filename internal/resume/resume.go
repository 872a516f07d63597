package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/maxvaer/keycrack/internal/keyspace"
	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/timing"
)

// Entry is the saved outcome of one exhausted target.
type Entry struct {
	Target    string                `json:"target"`
	Algorithm string                `json:"algorithm"`
	Matches   []scanner.MatchRecord `json:"matches,omitempty"`
	Explored  uint64                `json:"explored"`
	Failures  uint64                `json:"failures,omitempty"`
	Elapsed   timing.Elapsed        `json:"elapsed"`
}

// State tracks which targets a run has exhausted so an interrupted run can
// skip them. It is only valid for the keyspace it was created with.
type State struct {
	RunID       string  `json:"run_id"`
	Keyspace    string  `json:"keyspace"`
	Fingerprint uint64  `json:"fingerprint"`
	Completed   []Entry `json:"completed"`

	mu   sync.Mutex
	path string
	done map[string]int // target -> index into Completed
}

// New creates an empty state that will be saved to path.
func New(path, runID string, spec *keyspace.Spec) *State {
	return &State{
		RunID:       runID,
		Keyspace:    spec.String(),
		Fingerprint: spec.Fingerprint(),
		path:        path,
		done:        make(map[string]int),
	}
}

// Load reads an existing state from disk. Returns nil if the file does not
// exist.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing resume file: %w", err)
	}

	s.path = path
	s.done = make(map[string]int, len(s.Completed))
	for i, e := range s.Completed {
		s.done[e.Target] = i
	}
	return &s, nil
}

// Compatible reports whether the state was recorded against spec.
func (s *State) Compatible(spec *keyspace.Spec) bool {
	return s.Fingerprint == spec.Fingerprint() && s.Keyspace == spec.String()
}

// MarkCompleted records an exhausted target. Other states are ignored
// because they must be rescanned.
func (s *State) MarkCompleted(r scanner.TargetResult) {
	if r.State != scanner.StateExhausted {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.done[r.Target]; ok {
		return
	}
	s.done[r.Target] = len(s.Completed)
	s.Completed = append(s.Completed, Entry{
		Target:    r.Target,
		Algorithm: r.Algorithm,
		Matches:   r.Matches,
		Explored:  r.Explored,
		Failures:  r.Failures,
		Elapsed:   r.Elapsed,
	})
}

// Result returns the saved result for target.
func (s *State) Result(target string) (scanner.TargetResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.done[target]
	if !ok {
		return scanner.TargetResult{}, false
	}
	e := s.Completed[i]
	return scanner.TargetResult{
		Target:    e.Target,
		Algorithm: e.Algorithm,
		State:     scanner.StateExhausted,
		Matches:   e.Matches,
		Explored:  e.Explored,
		Failures:  e.Failures,
		Elapsed:   e.Elapsed,
	}, true
}

// FilterRemaining returns only targets that haven't been completed yet.
func (s *State) FilterRemaining(targets []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var remaining []string
	for _, t := range targets {
		if _, ok := s.done[t]; !ok {
			remaining = append(remaining, t)
		}
	}
	return remaining
}

// Save writes the current state to disk.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing resume state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remove deletes the resume file (called on successful completion).
func (s *State) Remove() error {
	return os.Remove(s.path)
}
