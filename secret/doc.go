// Package secret provides one-way hashing and constant-time verification for
// every secret class the engine compares: account passwords, validator
// verification codes, and company security answers.
//
// Hashes are argon2id in PHC string format. Hashing is salted per call, so two
// hashes of the same plaintext never match byte-for-byte while both remain
// verifiable. Verify is total: malformed or foreign hash input yields false,
// never an error, so callers cannot branch on hash shape.
package secret
