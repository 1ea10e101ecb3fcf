// Package report renders a runner.Report.
//
// Formats:
//   - table: aligned text with speedups, for terminals
//   - json, yaml: the full document, one record per pair
//   - csv: one row per pair, durations in nanoseconds
//   - svg: bar chart of the mean iteration time per pair
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/randomizedcoder/copybench/internal/runner"
	"github.com/randomizedcoder/copybench/internal/samples"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatSVG   Format = "svg"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatSVG}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r *runner.Report) error {
	switch f {
	case FormatTable:
		return WriteTable(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatSVG:
		return WriteSVG(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Document is the serialized form of a Report.
type Document struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Records  []Record  `json:"records" yaml:"records"`
}

// Record is the serialized form of one Outcome.
type Record struct {
	Suite        string           `json:"suite" yaml:"suite"`
	Scenario     string           `json:"scenario" yaml:"scenario"`
	Backend      string           `json:"backend" yaml:"backend"`
	Length       int              `json:"length" yaml:"length"`
	Policy       string           `json:"policy" yaml:"policy"`
	Status       string           `json:"status" yaml:"status"`
	Error        string           `json:"error,omitempty" yaml:"error,omitempty"`
	Warning      string           `json:"warning,omitempty" yaml:"warning,omitempty"`
	Measurements int              `json:"measurements" yaml:"measurements"`
	Warmups      int              `json:"warmups" yaml:"warmups"`
	RSD          *float64         `json:"rsd,omitempty" yaml:"rsd,omitempty"`
	Summary      *samples.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	AllocBytes   uint64           `json:"alloc_bytes" yaml:"alloc_bytes"`
	Mallocs      uint64           `json:"mallocs" yaml:"mallocs"`
	Elapsed      time.Duration    `json:"elapsed" yaml:"elapsed"`
}

// NewDocument converts r for serialization.
func NewDocument(r *runner.Report) Document {
	doc := Document{
		RunID:    r.RunID.String(),
		Started:  r.Started,
		Finished: r.Finished,
		Records:  make([]Record, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		rec := Record{
			Suite:        o.Suite,
			Scenario:     o.Scenario,
			Backend:      o.Backend,
			Length:       o.Length,
			Policy:       o.Policy,
			Status:       o.Status(),
			Measurements: o.Measurements,
			Warmups:      o.Warmups,
			Summary:      o.Summary,
			AllocBytes:   o.AllocBytes,
			Mallocs:      o.Mallocs,
			Elapsed:      o.Elapsed,
		}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		if o.Warning != nil {
			rec.Warning = o.Warning.Error()
		}
		// Neither JSON nor CSV readers agree on infinities.
		if o.Summary != nil && finite(o.RSD) {
			rsd := o.RSD
			rec.RSD = &rsd
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc
}

// finite reports whether an RSD is printable. A single measurement gives
// +Inf; a zero mean gives NaN.
func finite(rsd float64) bool {
	return !math.IsInf(rsd, 0) && !math.IsNaN(rsd)
}
