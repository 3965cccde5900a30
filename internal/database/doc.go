// Package database abstracts SurrealDB access behind the Database
// interface and provides batch transaction utilities. See database.go
// for the interface contract and transaction.go for atomicity patterns.
package database
