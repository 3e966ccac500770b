package canopyauth

import (
	"context"
	"net/http"
	"time"
)

// Logout returns the cookie that clears the browser session: same name as the
// login cookie, empty value, Max-Age=0. It is idempotent and never fails;
// an absent, malformed, or expired token still yields the clearing cookie.
//
// When the revocation denylist is enabled and the presented token parses, its
// identifier is denylisted for the remainder of the token's lifetime. A
// denylist write failure does not surface to the caller; the session still
// dies at its natural expiry.
func (e *Engine) Logout(ctx context.Context, tokenStr string) *http.Cookie {
	if e == nil {
		return nil
	}

	e.metricInc(MetricLogout)

	if e.denylist != nil && tokenStr != "" {
		if claims, err := e.tokens.Parse(tokenStr); err == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := e.denylist.Revoke(ctx, claims.ID, ttl); err == nil {
				e.metricInc(MetricTokenRevoked)
				e.emitAudit(ctx, auditEventTokenRevoked, true, claims.Subject, claims.Role, nil, nil)
			}
		}
	}

	e.emitAudit(ctx, auditEventLogout, true, "", "", nil, nil)
	return e.expiredSessionCookie()
}
