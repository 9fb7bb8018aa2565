// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. It also owns the embedded goose
// migrations that define the schema those stores query.
package postgres
