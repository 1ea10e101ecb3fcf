package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/clock/clocktest"
	"github.com/randomizedcoder/copybench/internal/report"
	"github.com/randomizedcoder/copybench/internal/runner"
	"github.com/randomizedcoder/copybench/internal/scenario"
	"github.com/randomizedcoder/copybench/internal/schedule"
)

// sampleReport has two successful pairs and one failed pair.
func sampleReport(t *testing.T) *runner.Report {
	t.Helper()
	leaky := scenario.New("leaky", func(backend.Backend, int) (scenario.Instance, error) {
		return scenario.Hooks{OnCleanUp: func() error { return errors.New("leaked") }}, nil
	})
	policy := schedule.Fixed{Measurements: 2, Iterations: 5}
	suite := runner.Suite{
		Name: "sample",
		Entries: []runner.Entry{
			{
				Scenario: scenario.Func("work", func() error { return nil }),
				Backends: []backend.Backend{backend.SequentialLoop{}, backend.BulkCopy{}},
				Length:   16,
				Policy:   policy,
			},
			{Scenario: leaky, Backends: []backend.Backend{backend.None{}}, Policy: policy},
		},
	}

	r, err := runner.New(clocktest.NewScript(2*time.Microsecond, 4*time.Microsecond)).Run(suite)
	require.Error(t, err)
	require.Len(t, r.Outcomes, 3)
	return r
}

func TestWriteJSON(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, r))

	var doc report.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.RunID.String(), doc.RunID)
	require.Len(t, doc.Records, 3)

	loop := doc.Records[0]
	assert.Equal(t, "ok", loop.Status)
	require.NotNil(t, loop.Summary)
	assert.Equal(t, 10, loop.Summary.Count)
	assert.Equal(t, 3*time.Microsecond, loop.Summary.Mean)
	require.NotNil(t, loop.RSD)

	failed := doc.Records[2]
	assert.Equal(t, "failed", failed.Status)
	assert.Nil(t, failed.Summary)
	assert.Nil(t, failed.RSD)
	assert.Contains(t, failed.Error, "leaked")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf, sampleReport(t)))

	var doc report.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Records, 3)
	assert.Equal(t, "bulk", doc.Records[1].Backend)
	assert.Equal(t, "sample", doc.Records[1].Suite)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, sampleReport(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %q", name)
		return -1
	}
	assert.Equal(t, "3000", rows[1][col("mean_ns")])
	assert.Equal(t, "10", rows[1][col("count")])
	assert.Equal(t, "failed", rows[3][col("status")])
	assert.Empty(t, rows[3][col("mean_ns")])
	assert.Contains(t, rows[3][col("error")], "leaked")
}

func TestWriteTable(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf, r))

	out := buf.String()
	assert.Contains(t, out, r.RunID.String())
	assert.Contains(t, out, "3 pairs, 1 failed")
	assert.Contains(t, out, "1.00x")
	assert.Contains(t, out, "leaked")
	for _, h := range []string{"Scenario", "Backend", "Mean", "Speedup"} {
		assert.Contains(t, out, h)
	}
}

func TestWriteTable_NonFiniteRSD(t *testing.T) {
	r := sampleReport(t)
	r.Outcomes[0].RSD = math.NaN()
	r.Outcomes[1].RSD = math.Inf(1)

	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf, r))
	out := buf.String()
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "Inf")

	doc := report.NewDocument(r)
	assert.Nil(t, doc.Records[0].RSD)
	assert.Nil(t, doc.Records[1].RSD)
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSVG(&buf, sampleReport(t)))
	assert.True(t, strings.Contains(buf.String(), "<svg"))
}

func TestWriteSVG_NothingToPlot(t *testing.T) {
	c := scenario.New("leaky", func(backend.Backend, int) (scenario.Instance, error) {
		return nil, errors.New("no")
	})
	r, _ := runner.New(clocktest.NewScript()).Run(runner.Suite{Name: "s", Entries: []runner.Entry{
		{Scenario: c, Backends: []backend.Backend{backend.None{}}, Policy: schedule.Fixed{Measurements: 1, Iterations: 1}},
	}})

	assert.ErrorIs(t, report.WriteSVG(&bytes.Buffer{}, r), report.ErrNothingToPlot)
}

func TestWrite_Dispatch(t *testing.T) {
	r := sampleReport(t)
	for _, f := range report.Formats() {
		t.Run(string(f), func(t *testing.T) {
			parsed, err := report.ParseFormat(string(f))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, report.Write(&buf, parsed, r))
			assert.NotZero(t, buf.Len())
		})
	}

	_, err := report.ParseFormat("xml")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
	assert.ErrorIs(t, report.Write(&bytes.Buffer{}, "xml", r), report.ErrUnknownFormat)
}
