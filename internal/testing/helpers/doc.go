// Package helpers provides test utility functions for the Recanto API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.GenerateToken(client)
//	staff := jh.GenerateStaffToken("staff-test", "staff@test.local")
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertRecordExists(t, db, "enrollment", enrollment.ID)
//	helpers.AssertValidationError(t, resp, "email")
//
// # Request Building
//
// Construct authenticated API requests:
//
//	req := helpers.NewRequest(t, "POST", "/api/inscricoes").
//	    WithBody(body).
//	    WithAuth(jh, client).
//	    Build()
package helpers
