// Command copybench runs the built-in copy and lifecycle benchmark suites
// through the adaptive harness and prints a report.
//
// Usage:
//
//	go run ./cmd/copybench list
//	go run ./cmd/copybench run --suites native --policy fixed --format table
//	COPYBENCH_RUN_BUDGET=2m go run ./cmd/copybench run --format json --output report.json
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
