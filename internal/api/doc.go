// Package api is the synchronous request boundary of the job engine.
//
// Submit validates kind-specific input, creates the job record in queued
// state, hands the pipeline to the bounded pool for detached execution, and
// returns the job id immediately; the caller observes completion only
// through the status endpoint or push notifications. The HTTP server wraps
// the same service for the thin transport layer.
package api
