package canopyauth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Authorize validates a session token and returns its principal. The checks
// run in a fixed order: signature and expiry, then the revocation denylist
// when enabled, then existence of the backing account, then role. Any failure
// before the role check is [ErrUnauthenticated]; a live session with the
// wrong role is [ErrForbidden]. With no required roles any valid session
// passes.
//
// A token whose account has since been deleted is rejected; deletion ends
// every outstanding session for that account.
func (e *Engine) Authorize(ctx context.Context, tokenStr string, required ...Role) (*Principal, error) {
	if e == nil || e.directory == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	principal, err := e.authorize(ctx, tokenStr, required)
	if e.metrics != nil {
		e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
	}
	return principal, err
}

func (e *Engine) authorize(ctx context.Context, tokenStr string, required []Role) (*Principal, error) {
	if tokenStr == "" {
		return nil, e.authorizeDenied(ctx, "", "", ErrUnauthenticated)
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		return nil, e.authorizeDenied(ctx, "", "", ErrUnauthenticated)
	}

	if e.denylist != nil {
		revoked, err := e.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: an unreachable denylist must not readmit
			// revoked sessions.
			wrapped := fmt.Errorf("%w: denylist check failed", ErrRevocationUnavailable)
			e.emitAudit(ctx, auditEventAuthorizeDenied, false, claims.Subject, claims.Role, wrapped, nil)
			e.metricInc(MetricAuthorizeUnauthenticated)
			return nil, wrapped
		}
		if revoked {
			return nil, e.authorizeDenied(ctx, claims.Subject, claims.Role, ErrUnauthenticated)
		}
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, e.authorizeDenied(ctx, claims.Subject, claims.Role, ErrUnauthenticated)
	}

	account, err := e.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		// A missing account and a directory outage both deny, but only the
		// miss is a clean unauthenticated. The outage keeps its category so
		// operators can tell the difference.
		if errors.Is(err, ErrAccountNotFound) {
			return nil, e.authorizeDenied(ctx, claims.Subject, claims.Role, ErrUnauthenticated)
		}
		wrapped := fmt.Errorf("%w: account lookup failed", ErrDirectoryUnavailable)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, claims.Subject, claims.Role, wrapped, nil)
		e.metricInc(MetricAuthorizeUnauthenticated)
		return nil, wrapped
	}
	if account.Role != role {
		return nil, e.authorizeDenied(ctx, claims.Subject, claims.Role, ErrUnauthenticated)
	}

	if len(required) > 0 && !roleAllowed(role, required) {
		e.metricInc(MetricAuthorizeForbidden)
		e.emitAudit(ctx, auditEventAuthorizeDenied, false, account.ID, role.String(), ErrForbidden, nil)
		return nil, ErrForbidden
	}

	e.metricInc(MetricAuthorizeSuccess)
	return &Principal{ID: account.ID, Role: role}, nil
}

func (e *Engine) authorizeDenied(ctx context.Context, accountID, role string, err error) error {
	e.metricInc(MetricAuthorizeUnauthenticated)
	e.emitAudit(ctx, auditEventAuthorizeDenied, false, accountID, role, err, nil)
	return err
}

func roleAllowed(role Role, required []Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
