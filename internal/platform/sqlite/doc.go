// Package sqlite provides an embedded store.RecordStore backed by the pure-Go
// modernc.org/sqlite driver ("sqlite"). It is meant for local development and
// single-node deployments that do not run PostgreSQL.
package sqlite
