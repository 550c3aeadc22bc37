// Package database provides the connection pool for the analytics store.
//
// The destination is a single PostgreSQL database holding the
// daily_volumes table, keyed by date.
package database
