package output

import (
	"io"
	"os"

	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/timing"
)

// RunInfo describes a run before it starts.
type RunInfo struct {
	RunID    string
	Keyspace string
	Size     uint64
	Targets  int
}

// Stats holds aggregate run statistics.
type Stats struct {
	Targets          int
	Recovered        int
	Skipped          int
	Explored         uint64
	Elapsed          timing.Elapsed
	CandidatesPerSec float64
}

// NewStats summarises a finished run.
func NewStats(run *scanner.Run) Stats {
	st := Stats{
		Targets:   len(run.Targets),
		Recovered: run.Recovered(),
		Explored:  run.Explored(),
		Elapsed:   run.Elapsed,
	}
	for i := range run.Targets {
		if run.Targets[i].State == scanner.StateSkipped {
			st.Skipped++
		}
	}
	if run.Elapsed.Seconds > 0 {
		st.CandidatesPerSec = float64(st.Explored) / run.Elapsed.Seconds
	}
	return st
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader(info RunInfo) error
	WriteAttempt(a *scanner.Attempt) error
	WriteTarget(r *scanner.TargetResult) error
	WriteFooter(stats Stats) error
	Close() error
}

// New returns the writer for format ("text", "json", "yaml" or "csv").
func New(format, outputFile string, noColor, quiet bool) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(outputFile)
	case "yaml":
		return NewYAMLWriter(outputFile)
	case "csv":
		return NewCSVWriter(outputFile)
	default:
		return NewTextWriter(outputFile, noColor, quiet)
	}
}

// openOutput returns stdout, or the created file and its closer.
func openOutput(outputFile string) (io.Writer, io.Closer, error) {
	if outputFile == "" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
