// Package revoke implements the optional server-side revocation denylist for
// otherwise stateless session tokens.
//
// The design is deliberately minimal: one Redis key per revoked token id,
// expiring with the token's own remaining lifetime, so the denylist can never
// outgrow the set of live tokens. Without this package logout is purely a
// client-side cookie drop.
package revoke
