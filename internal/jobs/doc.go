// Package jobs owns the durable job model and its SQLite persistence.
//
// A Job passes through a small absorbing state machine (queued, processing,
// completed, failed). The store enforces the terminal rule at the SQL level:
// an update against a job that already reached a terminal status is rejected
// with ErrJobTerminal, so a misbehaving caller can never resurrect a finished
// job. All timestamps are stored as RFC 3339 UTC strings.
package jobs
