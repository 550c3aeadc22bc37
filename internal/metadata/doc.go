// Package metadata resolves classification metadata for markets.
//
// Lookups are chunked multi-ticker requests against /markets and /events.
// A failed chunk degrades the output (its identifiers are omitted) instead
// of failing the run; failures are collected and reported once.
package metadata
