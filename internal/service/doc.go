// Package service implements the business rules of the enrollment
// system. Services depend on narrow repository interfaces declared in
// this package and return sentinel errors from errors.go; the handler
// layer maps those to HTTP statuses.
//
// The enrollment service owns the seat-accounting workflow and is the
// only code path allowed to trigger the occupied-mutating batches in
// the repository layer.
package service
