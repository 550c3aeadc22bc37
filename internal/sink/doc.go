// Package sink writes computed daily volume rows to the analytics store.
//
// Writes are idempotent upserts keyed by date: rerunning the pipeline over
// the same window overwrites prior rows with recomputed values. Each row is
// written independently; a failed date is logged and skipped.
package sink
