package output

import (
	"encoding/json"
	"io"

	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/timing"
)

type jsonTarget struct {
	Target    string                `json:"target" yaml:"target"`
	Algorithm string                `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	State     scanner.State         `json:"state" yaml:"state"`
	Found     bool                  `json:"found" yaml:"found"`
	Record    scanner.MatchRecord   `json:"record" yaml:"record"`
	Matches   []scanner.MatchRecord `json:"matches,omitempty" yaml:"matches,omitempty"`
	Explored  uint64                `json:"explored" yaml:"explored"`
	Failures  uint64                `json:"failures,omitempty" yaml:"failures,omitempty"`
	Error     string                `json:"error,omitempty" yaml:"error,omitempty"`
	Elapsed   timing.Elapsed        `json:"elapsed" yaml:"elapsed"`
}

type jsonReport struct {
	RunID            string         `json:"run_id" yaml:"run_id"`
	Keyspace         string         `json:"keyspace" yaml:"keyspace"`
	Size             uint64         `json:"size" yaml:"size"`
	Targets          []jsonTarget   `json:"targets" yaml:"targets"`
	Recovered        int            `json:"recovered" yaml:"recovered"`
	Explored         uint64         `json:"explored" yaml:"explored"`
	Elapsed          timing.Elapsed `json:"elapsed" yaml:"elapsed"`
	CandidatesPerSec float64        `json:"candidates_per_sec" yaml:"candidates_per_sec"`
}

// ReportWriter buffers per-target results and writes one document at the
// end of the run, as JSON or YAML.
type ReportWriter struct {
	w      io.Writer
	closer io.Closer
	encode func(io.Writer, *jsonReport) error
	report jsonReport
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*ReportWriter, error) {
	return newReportWriter(outputFile, func(w io.Writer, r *jsonReport) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}

func newReportWriter(outputFile string, encode func(io.Writer, *jsonReport) error) (*ReportWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &ReportWriter{w: w, closer: closer, encode: encode, report: jsonReport{Targets: []jsonTarget{}}}, nil
}

func (j *ReportWriter) WriteHeader(info RunInfo) error {
	j.report.RunID = info.RunID
	j.report.Keyspace = info.Keyspace
	j.report.Size = info.Size
	return nil
}

func (j *ReportWriter) WriteAttempt(*scanner.Attempt) error { return nil }

func (j *ReportWriter) WriteTarget(r *scanner.TargetResult) error {
	j.report.Targets = append(j.report.Targets, jsonTarget{
		Target:    r.Target,
		Algorithm: r.Algorithm,
		State:     r.State,
		Found:     r.Found(),
		Record:    r.Record(),
		Matches:   r.Matches,
		Explored:  r.Explored,
		Failures:  r.Failures,
		Error:     errString(r.Err),
		Elapsed:   r.Elapsed,
	})
	return nil
}

func (j *ReportWriter) WriteFooter(stats Stats) error {
	j.report.Recovered = stats.Recovered
	j.report.Explored = stats.Explored
	j.report.Elapsed = stats.Elapsed
	j.report.CandidatesPerSec = stats.CandidatesPerSec
	return j.encode(j.w, &j.report)
}

func (j *ReportWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
