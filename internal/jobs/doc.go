// Package jobs implements background maintenance tasks that run
// independently of HTTP request handling.
//
// The only job today is the ActivityCloser, which periodically marks
// activities whose schedule window has ended as inactive so they stop
// accepting enrollments. Jobs log errors but never crash the server;
// a failed sweep is retried on the next tick.
package jobs
