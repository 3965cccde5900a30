// Package middleware provides HTTP middleware for the enrollment API.
//
// The middleware package contains reusable components for
// authentication, rate limiting, idempotency, and request processing.
//
// # Authentication
//
// Auth validates bearer tokens; RequireStaff additionally gates
// staff-only routes:
//
//	mux.Handle("POST /api/atividades", middleware.Chain(handler,
//	    middleware.RequireStaff(jwtService)))
//
// After authentication, handlers read the caller from context:
//
//	clientID := middleware.GetClientID(r.Context())
//
// # Idempotency
//
// Enrollment creation honors the Idempotency-Key header so a retried
// POST does not reserve a second seat:
//
//	middleware.Idempotency(store)
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetClientID(ctx): authenticated subject
//   - GetClaims(ctx): full token claims
//   - GetRequestID(ctx): unique request identifier
package middleware
