// Package postgres implements the store interfaces on PostgreSQL via
// database/sql and the pgx stdlib driver, and maps driver errors onto the
// store package's sentinel errors.
package postgres
