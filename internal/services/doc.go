// Package services defines the shared error taxonomy for external
// collaborator calls and hosts the HTTP clients that implement them.
//
// Stage code wraps collaborator failures with one of the exported sentinel
// markers so boundaries can classify errors without string matching, and the
// pipeline runner uses Describe to turn any stage error into the
// human-readable message persisted on a failed job.
package services
