// Package directory provides an in-memory reference implementation of the
// canopyauth.AccountDirectory contract for tests, examples, and local
// development.
//
// It enforces the same hard uniqueness constraints a production directory
// must: email globally unique, role compound keys unique within their role,
// both arbitrated under one lock so concurrent inserts for the same key
// resolve to exactly one winner. Production deployments implement
// AccountDirectory against their own store; this package is not that store.
package directory
