// Package combined provides interaction benchmarks that exercise the
// harness components together.
//
// These measure what the harness itself adds around a timed iteration:
// the stop-signal and progress polls between measurements, a full
// SetUp/Execute/CleanUp cycle, and job dispatch under several producers.
// Isolated micro-benchmarks in each package cannot show the cumulative
// cost.
package combined
