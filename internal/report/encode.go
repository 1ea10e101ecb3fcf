package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/copybench/internal/runner"
)

// WriteJSON writes the report as an indented JSON document.
func WriteJSON(w io.Writer, r *runner.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}

// WriteYAML writes the report as a YAML document.
func WriteYAML(w io.Writer, r *runner.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}

var csvHeader = []string{
	"suite", "scenario", "backend", "length", "status",
	"count", "min_ns", "max_ns", "mean_ns", "stddev_ns", "median_ns", "p90_ns", "p99_ns",
	"measurements", "rsd", "alloc_bytes", "mallocs", "error", "warning",
}

// WriteCSV writes one row per pair. Summary columns are empty for failed
// pairs.
func WriteCSV(w io.Writer, r *runner.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range NewDocument(r).Records {
		row := []string{rec.Suite, rec.Scenario, rec.Backend, strconv.Itoa(rec.Length), rec.Status}
		if s := rec.Summary; s != nil {
			row = append(row,
				strconv.Itoa(s.Count),
				strconv.FormatInt(int64(s.Min), 10),
				strconv.FormatInt(int64(s.Max), 10),
				strconv.FormatInt(int64(s.Mean), 10),
				strconv.FormatInt(int64(s.StdDev), 10),
				strconv.FormatInt(int64(s.Median), 10),
				strconv.FormatInt(int64(s.P90), 10),
				strconv.FormatInt(int64(s.P99), 10),
			)
		} else {
			row = append(row, "", "", "", "", "", "", "", "")
		}

		rsd := ""
		if rec.RSD != nil {
			rsd = strconv.FormatFloat(*rec.RSD, 'f', 6, 64)
		}
		row = append(row,
			strconv.Itoa(rec.Measurements),
			rsd,
			strconv.FormatUint(rec.AllocBytes, 10),
			strconv.FormatUint(rec.Mallocs, 10),
			rec.Error,
			rec.Warning,
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
