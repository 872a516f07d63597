package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/maxvaer/keycrack/internal/scanner"
	"github.com/maxvaer/keycrack/internal/target"
	"github.com/olekukonko/tablewriter"
)

// PrintSummary renders one table row per target. The ordinal column is the
// cost of the recovery: how many candidates a front-to-back scan needs.
func PrintSummary(w io.Writer, results []scanner.TargetResult, size uint64) error {
	table := tablewriter.NewWriter(w)
	table.Header("Target", "Plaintext", "Ordinal", "Cost", "Explored", "State")

	rows := make([][]string, 0, len(results))
	for i := range results {
		r := &results[i]
		short := r.Target
		if tg, err := target.Parse(r.Target); err == nil {
			short = tg.Short()
		}
		plaintext, ordinal, cost := "-", "-", "-"
		if r.Found() {
			rec := r.Record()
			plaintext = rec.Candidate
			ordinal = strconv.FormatUint(rec.Ordinal, 10)
			if size > 0 {
				cost = fmt.Sprintf("%.1f%%", float64(rec.Ordinal)/float64(size)*100)
			}
		}
		rows = append(rows, []string{
			short,
			plaintext,
			ordinal,
			cost,
			strconv.FormatUint(r.Explored, 10),
			string(r.State),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
