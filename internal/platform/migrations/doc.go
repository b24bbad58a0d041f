// Package migrations embeds the SQL schema migrations and applies them with
// goose. The same migration files serve the PostgreSQL and SQLite backends.
package migrations
