// Package aggregate buckets trades into local calendar days and rolls them
// up into per-day, per-sport volume rows.
package aggregate
