package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// NewYAMLWriter creates a YAML output writer. The document has the same
// shape as the JSON report.
func NewYAMLWriter(outputFile string) (*ReportWriter, error) {
	return newReportWriter(outputFile, func(w io.Writer, r *jsonReport) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	})
}
