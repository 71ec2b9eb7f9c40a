// Package logging provides a structured logging system for driftwood with
// unified log handling and level filtering.
//
// This package is built on Go's standard slog package. Every log entry carries
// a subsystem identifier so that output from the graph builder, the scheduler
// and the individual entity workers can be told apart.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Scheduler", "validated %d entities", n)
//	logging.Error("Scheduler", err, "reconciliation failed")
//
// InitForCLI must be called once at startup; log calls made before
// initialization are dropped, except errors which fall back to stderr.
package logging
