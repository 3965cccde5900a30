// Package fixtures provides test data factories for the Recanto API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	client := f.CreateClient(t)                    // Default client
//	responsible := f.CreateResponsible(t)          // Instructor
//	activity := f.CreateActivity(t, responsible)   // Activity with open seats
//	enrollment := f.CreateEnrollment(t, client, activity)
//
// # Customization
//
// Use option functions for customization:
//
//	client := f.CreateClient(t, func(o *fixtures.ClientOpts) {
//	    o.Email = "custom@example.com"
//	})
//	activity := f.CreateActivity(t, responsible, fixtures.WithCapacity(1))
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	client1 := f.CreateClient(t) // cliente_abc123@test.local
//	client2 := f.CreateClient(t) // cliente_def456@test.local
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
