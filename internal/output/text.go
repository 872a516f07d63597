package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/maxvaer/keycrack/internal/scanner"
)

// TextWriter writes the classic line-oriented report: one line per
// candidate when diagnostics are on (winning line marked with '#'), an
// explored count per target and the elapsed time per run.
type TextWriter struct {
	w       io.Writer
	closer  io.Closer
	quiet   bool
	match   lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
	success lipgloss.Style
}

// NewTextWriter creates a text output writer. If outputFile is empty, stdout
// is used. noColor disables styling; styling is also dropped automatically
// when the destination is not a terminal.
func NewTextWriter(outputFile string, noColor, quiet bool) (*TextWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return newTextWriter(w, closer, noColor, quiet), nil
}

func newTextWriter(w io.Writer, closer io.Closer, noColor, quiet bool) *TextWriter {
	t := &TextWriter{w: w, closer: closer, quiet: quiet}
	if noColor {
		plain := lipgloss.NewStyle()
		t.match, t.dim, t.warn, t.success = plain, plain, plain, plain
		return t
	}
	r := lipgloss.NewRenderer(w)
	t.match = r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	t.dim = r.NewStyle().Faint(true)
	t.warn = r.NewStyle().Foreground(lipgloss.Color("11"))
	t.success = r.NewStyle().Foreground(lipgloss.Color("10"))
	return t
}

func (t *TextWriter) WriteHeader(info RunInfo) error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.dim.Render(fmt.Sprintf("Keyspace %s (%d candidates), %d targets",
		info.Keyspace, info.Size, info.Targets)))
	return err
}

func (t *TextWriter) WriteAttempt(a *scanner.Attempt) error {
	if a.Match {
		_, err := fmt.Fprintln(t.w, t.match.Render(fmt.Sprintf("#%-8d%s %s", a.Ordinal, a.Candidate, a.Digest)))
		return err
	}
	_, err := fmt.Fprintf(t.w, " %-8d%s %s\n", a.Ordinal, a.Candidate, a.Digest)
	return err
}

func (t *TextWriter) WriteTarget(r *scanner.TargetResult) error {
	switch {
	case r.State == scanner.StateSkipped:
		_, err := fmt.Fprintln(t.w, t.warn.Render(fmt.Sprintf("skipped  %s: %v", r.Target, r.Err)))
		return err
	case r.Found():
		for _, m := range r.Matches {
			line := fmt.Sprintf("found    %-8s ordinal %-10d %s", m.Candidate, m.Ordinal, r.Target)
			if _, err := fmt.Fprintln(t.w, t.success.Render(line)); err != nil {
				return err
			}
		}
	default:
		if _, err := fmt.Fprintf(t.w, "missing  %s\n", r.Target); err != nil {
			return err
		}
	}
	if r.Failures > 0 {
		if _, err := fmt.Fprintln(t.w, t.warn.Render(fmt.Sprintf("%d candidates failed to hash: %v", r.Failures, r.Failure))); err != nil {
			return err
		}
	}
	if r.State == scanner.StateInterrupted {
		_, err := fmt.Fprintf(t.w, "%d solutions explored before interruption\n", r.Explored)
		return err
	}
	_, err := fmt.Fprintf(t.w, "%d solutions explored\n", r.Explored)
	return err
}

func (t *TextWriter) WriteFooter(stats Stats) error {
	if _, err := fmt.Fprintln(t.w, stats.Elapsed.String()); err != nil {
		return err
	}
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.dim.Render(fmt.Sprintf("Recovered: %d/%d | Skipped: %d | Candidates: %d | %.1f candidates/s",
		stats.Recovered, stats.Targets, stats.Skipped, stats.Explored, stats.CandidatesPerSec)))
	return err
}

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
