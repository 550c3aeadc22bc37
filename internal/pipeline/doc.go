// Package pipeline wires the run together: compute the lookback window,
// fetch trades, resolve categories, aggregate, and upsert.
//
// The run is deliberately single-threaded and sequential — one request in
// flight at a time, blocking sleeps for pacing. Partial metadata or upsert
// failures degrade the output and are logged; only a failed bulk trade
// fetch aborts the run.
package pipeline
