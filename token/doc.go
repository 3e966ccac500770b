// Package token signs and verifies the stateless session tokens issued after
// successful credential verification.
//
// A token binds the principal id (sub), role, a unique token id (jti), issue
// time, and expiry under a single process-wide key. The server holds no
// session table; the token is the session. HS256 is the default method,
// Ed25519 is supported for split sign/verify deployments.
//
// # What this package must NOT do
//
//   - Default or derive a signing key. Key material is caller-supplied and a
//     missing key is a constructor error.
//   - Resolve principals. Existence checks against the account directory are
//     the session guard's job.
package token
