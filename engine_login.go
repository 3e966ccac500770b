package canopyauth

import (
	"context"
	"errors"
	"fmt"
)

// Authenticate verifies a credential payload and returns the matched
// principal. All failures past the engine-readiness check return
// [ErrInvalidCredentials]: an unknown identity burns a hash verification so
// its timing matches a wrong secret, and the error value is shared so the two
// cases are indistinguishable to callers.
func (e *Engine) Authenticate(ctx context.Context, creds Credentials) (*Principal, error) {
	if e == nil || e.directory == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	role := creds.CredentialRole()

	account, err := e.directory.FindByLookup(ctx, creds.lookup())
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: credential lookup failed", ErrDirectoryUnavailable)
		}
		e.hasher.Verify(creds.submitted(), e.burnHash)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", role.String(), ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	storedHash := credentialHash(account)
	// A record missing its credential hash still burns a verification so the
	// response shape stays uniform.
	if storedHash == "" {
		storedHash = e.burnHash
	}

	if !e.hasher.Verify(creds.submitted(), storedHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, role.String(), ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, role.String(), nil, nil)

	return &Principal{ID: account.ID, Role: account.Role}, nil
}

// Login authenticates and, on success, issues a signed session token wrapped
// in its cookie envelope.
func (e *Engine) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	principal, err := e.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	signed, _, expiresAt, err := e.tokens.Issue(principal.ID, principal.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &LoginResult{
		Principal: *principal,
		Token:     signed,
		ExpiresAt: expiresAt,
		Cookie:    e.sessionCookie(signed, expiresAt),
	}, nil
}

// credentialHash selects the hash a role authenticates against. Organization
// and company accounts hold a password hash; validators hold a verification
// code hash. The stored security answer hash is never consulted here.
func credentialHash(account *Account) string {
	switch account.Role {
	case RoleOrganization, RoleCompany:
		return account.SecretHash
	case RoleValidator:
		return account.VerificationCodeHash
	default:
		return ""
	}
}
