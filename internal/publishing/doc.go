// Package publishing pushes a rendered video to an external social platform.
//
// The pipeline verifies the linked account is active and verified, obtains a
// fresh access token from the token collaborator, resolves the per-platform
// publisher, and records the returned external id and URL as the job result.
package publishing
