package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/maxvaer/keycrack/internal/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const kb07Target = "$6$KB$3MiAO5oLs/.coZCPQ2QYOy8Ozo3v7QzGdwBEv3N7E0pJen3CJ63DmYXIZz6KEsykHmGsu3Dh1KCNe0niN0wvx/"

func sampleRun() *scanner.Run {
	return &scanner.Run{
		Keyspace: "A-Z,A-Z,00-99",
		Size:     67_600,
		Targets: []scanner.TargetResult{
			{
				Target:    kb07Target,
				Algorithm: "6",
				State:     scanner.StateExhausted,
				Matches:   []scanner.MatchRecord{{Candidate: "KB07", Digest: kb07Target, Ordinal: 26_108, Found: true}},
				Explored:  67_600,
			},
			{
				Target:    "$6$KB$nomatch",
				Algorithm: "6",
				State:     scanner.StateExhausted,
				Explored:  67_600,
			},
			{
				Target: "$6$K",
				State:  scanner.StateSkipped,
				Err:    target.ErrMalformedTarget,
			},
		},
		Elapsed: timing.FromDuration(2 * time.Second),
	}
}

func writeAll(t *testing.T, w Writer, run *scanner.Run) {
	t.Helper()
	require.NoError(t, w.WriteHeader(RunInfo{RunID: "run-1", Keyspace: run.Keyspace, Size: run.Size, Targets: len(run.Targets)}))
	for i := range run.Targets {
		require.NoError(t, w.WriteTarget(&run.Targets[i]))
	}
	require.NoError(t, w.WriteFooter(NewStats(run)))
	require.NoError(t, w.Close())
}

func TestNewStats(t *testing.T) {
	st := NewStats(sampleRun())
	assert.Equal(t, 3, st.Targets)
	assert.Equal(t, 1, st.Recovered)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, uint64(135_200), st.Explored)
	assert.InDelta(t, 67_600.0, st.CandidatesPerSec, 0.001)
}

func TestTextWriterAttemptMarker(t *testing.T) {
	var buf bytes.Buffer
	w := newTextWriter(&buf, nil, true, false)
	require.NoError(t, w.WriteAttempt(&scanner.Attempt{Ordinal: 26_107, Candidate: "KB06", Digest: "$6$KB$x"}))
	require.NoError(t, w.WriteAttempt(&scanner.Attempt{Ordinal: 26_108, Candidate: "KB07", Digest: "$6$KB$y", Match: true}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, " 26107   KB06 $6$KB$x", lines[0])
	assert.Equal(t, "#26108   KB07 $6$KB$y", lines[1])
}

func TestTextWriterReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w, err := NewTextWriter(path, true, false)
	require.NoError(t, err)
	writeAll(t, w, sampleRun())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Keyspace A-Z,A-Z,00-99 (67600 candidates), 3 targets")
	assert.Contains(t, out, "found    KB07     ordinal 26108")
	assert.Contains(t, out, "missing  $6$KB$nomatch")
	assert.Contains(t, out, "skipped  $6$K: malformed target")
	assert.Equal(t, 2, strings.Count(out, "67600 solutions explored"))
	assert.Contains(t, out, "Time elapsed was 2000000000ns or 2.000000000s")
	assert.Contains(t, out, "Recovered: 1/3")
}

func TestTextWriterQuiet(t *testing.T) {
	var buf bytes.Buffer
	w := newTextWriter(&buf, nil, true, true)
	run := sampleRun()
	require.NoError(t, w.WriteHeader(RunInfo{}))
	require.NoError(t, w.WriteFooter(NewStats(run)))
	assert.Equal(t, "Time elapsed was 2000000000ns or 2.000000000s\n", buf.String())
}

func TestTextWriterFailuresAndInterruption(t *testing.T) {
	var buf bytes.Buffer
	w := newTextWriter(&buf, nil, true, false)
	require.NoError(t, w.WriteTarget(&scanner.TargetResult{
		Target:   "$6$KB$x",
		State:    scanner.StateInterrupted,
		Explored: 2048,
		Failures: 2,
		Failure:  errors.New("boom"),
	}))
	out := buf.String()
	assert.Contains(t, out, "2 candidates failed to hash: boom")
	assert.Contains(t, out, "2048 solutions explored before interruption")
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteAttempt(&scanner.Attempt{Ordinal: 1}))
	writeAll(t, w, sampleRun())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report jsonReport
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, uint64(67_600), report.Size)
	require.Len(t, report.Targets, 3)
	assert.True(t, report.Targets[0].Found)
	assert.Equal(t, "KB07", report.Targets[0].Record.Candidate)
	assert.Equal(t, uint64(26_108), report.Targets[0].Record.Ordinal)
	assert.False(t, report.Targets[1].Record.Found)
	assert.Equal(t, scanner.StateSkipped, report.Targets[2].State)
	assert.Contains(t, report.Targets[2].Error, "malformed target")
	assert.Equal(t, int64(2_000_000_000), report.Elapsed.Nanoseconds)
	assert.Equal(t, 1, report.Recovered)
}

func TestYAMLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w, err := NewYAMLWriter(path)
	require.NoError(t, err)
	writeAll(t, w, sampleRun())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: run-1\n")

	var report jsonReport
	require.NoError(t, yaml.Unmarshal(data, &report))
	require.Len(t, report.Targets, 3)
	assert.Equal(t, "KB07", report.Targets[0].Record.Candidate)
	assert.Equal(t, uint64(26_108), report.Targets[0].Record.Ordinal)
	assert.Equal(t, scanner.StateSkipped, report.Targets[2].State)
	assert.Equal(t, int64(2_000_000_000), report.Elapsed.Nanoseconds)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	writeAll(t, w, sampleRun())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "target,algorithm,state,found"))
	assert.Contains(t, lines[1], ",6,exhausted,true,KB07,26108,67600,0,")
	assert.Contains(t, lines[2], ",6,exhausted,false,,,67600,0,")
	assert.Contains(t, lines[3], "skipped")
}

type recordingWriter struct {
	targets  []string
	attempts int
	footer   bool
	closed   bool
}

func (r *recordingWriter) WriteHeader(RunInfo) error             { return nil }
func (r *recordingWriter) WriteAttempt(*scanner.Attempt) error   { r.attempts++; return nil }
func (r *recordingWriter) WriteTarget(t *scanner.TargetResult) error {
	r.targets = append(r.targets, t.Target)
	return nil
}
func (r *recordingWriter) WriteFooter(Stats) error { r.footer = true; return nil }
func (r *recordingWriter) Close() error            { r.closed = true; return nil }

func TestSortedWriter(t *testing.T) {
	results := []scanner.TargetResult{
		{Target: "c", Explored: 10, Matches: []scanner.MatchRecord{{Ordinal: 50, Found: true}}},
		{Target: "a", Explored: 30},
		{Target: "b", Explored: 20, Matches: []scanner.MatchRecord{{Ordinal: 5, Found: true}}},
	}
	tests := []struct {
		sortBy string
		want   []string
	}{
		{"target", []string{"a", "b", "c"}},
		{"ordinal", []string{"b", "c", "a"}},
		{"explored", []string{"c", "b", "a"}},
		{"", []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			inner := &recordingWriter{}
			w := NewSortedWriter(inner, tt.sortBy)
			require.NoError(t, w.WriteAttempt(&scanner.Attempt{}))
			for i := range results {
				require.NoError(t, w.WriteTarget(&results[i]))
			}
			assert.Empty(t, inner.targets)
			require.NoError(t, w.WriteFooter(Stats{}))
			require.NoError(t, w.Close())
			assert.Equal(t, tt.want, inner.targets)
			assert.Equal(t, 1, inner.attempts)
			assert.True(t, inner.footer)
			assert.True(t, inner.closed)
		})
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	run := sampleRun()
	require.NoError(t, PrintSummary(&buf, run.Targets, run.Size))
	out := buf.String()
	assert.Contains(t, out, "KB07")
	assert.Contains(t, out, "26108")
	assert.Contains(t, out, "38.6%")
	assert.Contains(t, out, "skipped")
}

func TestProgressLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 200, false, nil)
	p.Add(50)
	p.Add(50)
	assert.Equal(t, uint64(100), p.Completed())
	p.Redraw()
	assert.Contains(t, buf.String(), "[ 50%] 100/200")

	buf.Reset()
	q := NewProgress(&buf, 200, true, nil)
	q.Start()
	q.Redraw()
	q.Stop()
	q.Stop()
	assert.Empty(t, buf.String())
}

func TestProgressStopWaitsForFinalLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 10, false, nil)
	p.Start()
	p.Add(10)
	p.Stop()

	out := buf.String()
	assert.Contains(t, out, "[100%] 10/10")
	assert.True(t, strings.HasSuffix(out, "\n"))

	p.Stop()
	assert.Equal(t, out, buf.String())
}
