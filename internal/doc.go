// Package internal holds small cross-cutting helpers shared by the root
// package: cryptographically random verification-code generation.
package internal
