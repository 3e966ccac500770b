package canopyauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRegisterSuccess   = "register_success"
	auditEventRegisterInvalid   = "register_invalid"
	auditEventRegisterDuplicate = "register_duplicate"
	auditEventRegisterFailure   = "register_failure"
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventLogout            = "logout"
	auditEventTokenRevoked      = "token_revoked"
	auditEventAuthorizeDenied   = "authorize_denied"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	role string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		Role:      role,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = auditErrorCode(err)
	}

	e.audit.Emit(ctx, event)
}

// auditErrorCode collapses errors to stable, secret-free codes. Internal
// backend detail (directory, denylist) is reduced to its category.
func auditErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return "validation_failure"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountExists):
		return "account_exists"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrRoleInvalid):
		return "role_invalid"
	case errors.Is(err, ErrDirectoryUnavailable):
		return "directory_unavailable"
	case errors.Is(err, ErrRevocationUnavailable):
		return "revocation_unavailable"
	default:
		return "internal_error"
	}
}
