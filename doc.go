// Package canopyauth provides role-polymorphic credential verification and
// stateless session issuance for platforms with structurally different identity
// classes: password-holding organizations, password-holding companies, and
// code-holding validators, all resolved against one unified account store.
//
// Every role funnels through the same two-step shape (resolve identity, then
// verify secret) and converges on a single session contract: a signed,
// time-bounded token delivered in an HttpOnly cookie. Credentials and registration payloads
// are closed tagged variants, so an unhandled role is a compile-time hole, not
// a runtime branch miss.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Hashing and signature verification are CPU-bound but run on
// the calling goroutine; the net/http request model already keeps them off any
// shared dispatch path.
//
// # Architecture boundaries
//
// canopyauth is the public surface. It exposes [Engine], [Builder], [Config],
// the [Credentials] and [Registration] variants, and the [AccountDirectory]
// contract. Secret hashing lives in secret/, token signing in token/, the
// optional revocation denylist in revoke/, and HTTP gating in middleware/.
// Audit dispatch and metric storage live under internal/ and are never
// exported directly.
//
// # What this package must NOT do
//
//   - Persist accounts. [AccountDirectory] is a caller-supplied collaborator;
//     the in-memory directory package exists for tests and examples only.
//   - Return hashed or plaintext secret material from any operation.
//   - Fall back to a default signing key. A missing key fails [Builder.Build].
package canopyauth
