// Package realtime delivers job progress to connected clients.
//
// A Registry tracks the live push channels of each authenticated user; the
// Bus fans a typed event out to every channel a user currently holds. Both
// are best-effort: a user with no channels simply misses the push and
// recovers state from the job store, and a transport failure on one channel
// never affects delivery to the others.
//
// The websocket handler owns the authentication handshake. A fresh channel
// is unauthenticated until it sends an auth message naming a known user; any
// other message type before that is answered with an error event and the
// channel stays out of the registry.
package realtime
