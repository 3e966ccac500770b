package token

import (
	"testing"
	"time"
)

// FuzzParse exercises the session token parser with arbitrary strings.
// Goal: no panics; invalid inputs must be rejected with errors.
func FuzzParse(f *testing.F) {
	mgr, err := NewManager(Config{
		TTL:           5 * time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("fuzz-signing-key-32-bytes-long!!"),
		Issuer:        "fuzz-test",
		Leeway:        30 * time.Second,
	})
	if err != nil {
		f.Fatal(err)
	}

	validToken, _, _, err := mgr.Issue("acct-1", "VALIDATOR")
	if err != nil {
		f.Fatal(err)
	}

	f.Add(validToken)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ0ZXN0In0.invalid")
	f.Add("eyJhbGciOiJub25lIn0.eyJzdWIiOiJ0ZXN0In0.")

	f.Fuzz(func(t *testing.T, input string) {
		// Must not panic. Errors are expected for malformed input.
		claims, err := mgr.Parse(input)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("Parse returned nil claims without error")
		}
		if claims.Subject == "" || claims.Role == "" || claims.ID == "" {
			t.Fatal("Parse accepted incomplete claims")
		}
	})
}
