package canopyauth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for every login failure past field
	// validation: unknown identity, missing credential material, or wrong
	// secret. The value is shared so callers cannot distinguish the cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned when registration collides with an
	// existing uniqueness key. The colliding field is deliberately not named.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound is the directory miss signal. The engine never
	// surfaces it from login paths; see [ErrInvalidCredentials].
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount is returned by [AccountDirectory.Insert] when a
	// uniqueness constraint would be violated.
	ErrDuplicateAccount = errors.New("duplicate account")
	// ErrUnauthenticated is returned by the session guard for a missing,
	// malformed, expired, revoked, or orphaned token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned by the session guard when the session is valid
	// but the principal's role does not match the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrRoleInvalid is returned when a role tag falls outside the closed set.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrDirectoryUnavailable wraps directory failures that are neither a
	// miss nor a conflict. Internal detail is logged, never propagated.
	ErrDirectoryUnavailable = errors.New("account directory unavailable")
	// ErrRevocationUnavailable wraps denylist backend failures. The guard
	// fails closed when it cannot consult the denylist.
	ErrRevocationUnavailable = errors.New("revocation backend unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine that was not produced by [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
)

// FieldError names one missing or malformed registration field.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// ValidationError reports every failed registration field, not just the first.
// It is the only error category that carries field-level detail, since it
// never contains secret material.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Has reports whether the named field failed validation.
func (v *ValidationError) Has(field string) bool {
	if v == nil {
		return false
	}
	for _, f := range v.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationError) add(field, reason string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Reason: reason})
}

func (v *ValidationError) orNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}
