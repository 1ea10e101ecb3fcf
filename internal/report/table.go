package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/randomizedcoder/copybench/internal/runner"
)

var tableHeaders = []string{
	"Scenario", "Backend", "Mean", "Median", "StdDev", "Min", "Max", "N", "RSD", "Alloc", "Speedup", "Note",
}

// WriteTable writes an aligned table. Speedup compares each pair's mean
// against the first successful backend of the same scenario.
func WriteTable(w io.Writer, r *runner.Report) error {
	renderer := lipgloss.NewRenderer(w)
	cell := renderer.NewStyle().Padding(0, 1)
	header := cell.Bold(true)
	failed := cell.Foreground(lipgloss.Color("9"))
	warned := cell.Foreground(lipgloss.Color("11"))

	statuses := make([]string, 0, len(r.Outcomes))
	baseline := make(map[string]time.Duration)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tableHeaders...)

	for _, o := range r.Outcomes {
		statuses = append(statuses, o.Status())
		if !o.OK() {
			t.Row(o.Scenario, o.Backend, "-", "-", "-", "-", "-", "-", "-", "-", "-", o.Err.Error())
			continue
		}

		s := o.Summary
		base, ok := baseline[o.Scenario]
		if !ok {
			base = s.Mean
			baseline[o.Scenario] = base
		}
		note := ""
		if o.Warning != nil {
			note = o.Warning.Error()
		}
		t.Row(
			o.Scenario,
			o.Backend,
			s.Mean.String(),
			s.Median.String(),
			s.StdDev.String(),
			s.Min.String(),
			s.Max.String(),
			strconv.Itoa(s.Count),
			formatRSD(o.RSD),
			humanize.IBytes(o.AllocBytes),
			speedup(base, s.Mean),
			note,
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return header
		}
		if row < 0 || row >= len(statuses) {
			return cell
		}
		switch statuses[row] {
		case "failed", "skipped":
			return failed
		case "warning":
			return warned
		}
		return cell
	})

	if _, err := fmt.Fprintf(w, "Run %s: %d pairs, %d failed\n",
		r.RunID, len(r.Outcomes), len(r.Failed())); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func speedup(base, mean time.Duration) string {
	if mean <= 0 || base <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fx", float64(base)/float64(mean))
}

func formatRSD(rsd float64) string {
	if !finite(rsd) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", rsd*100)
}
