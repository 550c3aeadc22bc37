// Package model defines shared data types for the daily volume pipeline.
//
// Conventions:
//   - Timestamps: int64 seconds since Unix epoch (trade occurrence times)
//   - Dates: Date value type (a local calendar day, no time component)
//   - Volumes: int64 contract counts
//   - IDs: string for tickers, uuid.UUID for trade IDs
package model
