// Package middleware exposes HTTP adapters for session enforcement built on
// top of canopyauth.Engine authorization.
//
// # Guards
//
//   - [Guard] — validates the session cookie and optionally enforces roles.
//   - [RequireOrganization], [RequireCompany], [RequireValidator] — single-role
//     shorthands over [Guard].
//
// Each guard reads the session cookie (or a Bearer token as fallback), calls
// Engine.Authorize, and injects the resolved principal into the request
// context for [PrincipalFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authorization logic itself; all decisions are delegated to
// Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Engine).
//   - Access the directory or the denylist (Engine handles I/O).
//   - Make decisions beyond pass/reject from Engine.Authorize.
package middleware
