package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/maxvaer/keycrack/internal/scanner"
)

// CSVWriter writes one row per target.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader(RunInfo) error {
	return c.w.Write([]string{"target", "algorithm", "state", "found", "candidate", "ordinal", "explored", "failures", "elapsed_ns", "error"})
}

func (c *CSVWriter) WriteAttempt(*scanner.Attempt) error { return nil }

func (c *CSVWriter) WriteTarget(r *scanner.TargetResult) error {
	rec := r.Record()
	ordinal := ""
	if rec.Found {
		ordinal = strconv.FormatUint(rec.Ordinal, 10)
	}
	return c.w.Write([]string{
		r.Target,
		r.Algorithm,
		string(r.State),
		strconv.FormatBool(rec.Found),
		rec.Candidate,
		ordinal,
		strconv.FormatUint(r.Explored, 10),
		strconv.FormatUint(r.Failures, 10),
		strconv.FormatInt(r.Elapsed.Nanoseconds, 10),
		errString(r.Err),
	})
}

func (c *CSVWriter) WriteFooter(Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
