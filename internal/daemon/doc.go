// Package daemon wires the job engine together: the store, push-channel
// registry and bus, pipeline runner and worker pool, collaborator clients,
// and the HTTP surface. It enforces single-instance execution with a file
// lock.
package daemon
