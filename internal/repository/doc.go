// Package repository implements the data access layer for the Recanto API.
//
// Each repository struct handles CRUD operations for one collection
// (client, activity, responsible, enrollment, review) via SurrealQL.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database.Database
//   - Methods implement data operations (Create, GetByID, List, Update, ...)
//   - Parameterized queries with $variable syntax
//   - type::record() for safe ID handling, time::now() for timestamps
//   - Results are parsed into model structs by parseXxxData helpers
//
// # Seat Accounting
//
// EnrollmentRepository owns the two transactional batches that write
// activity.occupied (reserve on create, release on cancel). No other
// query in the package touches that field.
//
// # Example Usage
//
//	repo := NewActivityRepository(db)
//	activity, err := repo.GetByID(ctx, "activity:abc123")
//	if err != nil {
//	    return err
//	}
//	if activity == nil {
//	    // not found
//	}
package repository
