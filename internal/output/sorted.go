package output

import (
	"sort"

	"github.com/maxvaer/keycrack/internal/scanner"
)

// SortedWriter buffers per-target results and replays them sorted when
// WriteFooter is called. Attempts pass straight through.
type SortedWriter struct {
	inner   Writer
	sortBy  string
	results []*scanner.TargetResult
}

// NewSortedWriter wraps inner. sortBy is "target", "ordinal" (cheapest
// recovery first, misses last) or "explored".
func NewSortedWriter(inner Writer, sortBy string) *SortedWriter {
	return &SortedWriter{inner: inner, sortBy: sortBy}
}

func (w *SortedWriter) WriteHeader(info RunInfo) error {
	return w.inner.WriteHeader(info)
}

func (w *SortedWriter) WriteAttempt(a *scanner.Attempt) error {
	return w.inner.WriteAttempt(a)
}

func (w *SortedWriter) WriteTarget(r *scanner.TargetResult) error {
	cpy := *r
	w.results = append(w.results, &cpy)
	return nil
}

func (w *SortedWriter) WriteFooter(stats Stats) error {
	sort.SliceStable(w.results, func(i, j int) bool {
		a, b := w.results[i], w.results[j]
		switch w.sortBy {
		case "target":
			return a.Target < b.Target
		case "ordinal":
			if a.Found() != b.Found() {
				return a.Found()
			}
			return a.Record().Ordinal < b.Record().Ordinal
		case "explored":
			return a.Explored < b.Explored
		default:
			return false
		}
	})
	for _, r := range w.results {
		if err := w.inner.WriteTarget(r); err != nil {
			return err
		}
	}
	return w.inner.WriteFooter(stats)
}

func (w *SortedWriter) Close() error {
	return w.inner.Close()
}
