// Package postgres provides the PostgreSQL implementation of store.RecordStore.
// It is used with the pgx database/sql driver ("pgx") and maps driver errors
// onto the store package's sentinel errors so that no raw driver error text
// has to be interpreted above the storage layer.
package postgres
