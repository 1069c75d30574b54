// Package platform talks to the social platform gateway: linked account
// lookup, access token refresh, and video upload. One client satisfies
// every publishing collaborator interface and registers itself as the
// publisher for the platforms the gateway fronts.
package platform
