// Package pipeline executes jobs through their ordered stages.
//
// A Runner drives one job at a time through a Pipeline: it transitions the
// record to processing, persists progress after every stage boundary, pushes
// a notification per transition, and stops at the first failing stage. Runs
// are detached from the submitting request; the Pool bounds how many run at
// once while keeping submission non-blocking.
//
// There is deliberately no cancellation, timeout, or retry: once admitted, a
// job runs until every stage succeeds or one fails.
package pipeline
