package canopyauth

import (
	"context"
	"errors"
	"fmt"
)

// Register creates an account for any of the three roles. Field validation
// collects every failing field before returning; uniqueness conflicts map to
// [ErrAccountExists] without naming the colliding field. Secret material is
// hashed before it reaches the directory.
func (e *Engine) Register(ctx context.Context, reg Registration) (*RegisterResult, error) {
	if e == nil || e.directory == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	role := reg.RegistrationRole()

	input, err := e.buildAccountInput(reg)
	if err != nil {
		e.metricInc(MetricRegisterInvalid)
		e.emitAudit(ctx, auditEventRegisterInvalid, false, "", role.String(), err, nil)
		return nil, err
	}

	if err := e.checkUniqueness(ctx, input); err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", role.String(), err, nil)
		} else {
			e.emitAudit(ctx, auditEventRegisterFailure, false, "", role.String(), err, nil)
		}
		return nil, err
	}

	account, err := e.directory.Insert(ctx, input)
	if err != nil {
		// The directory arbitrates insert races; a conflict here means
		// another registration won between our pre-check and the insert.
		if errors.Is(err, ErrDuplicateAccount) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", role.String(), ErrAccountExists, nil)
			return nil, ErrAccountExists
		}
		wrapped := fmt.Errorf("%w: insert failed", ErrDirectoryUnavailable)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", role.String(), wrapped, nil)
		return nil, wrapped
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, account.ID, role.String(), nil, nil)

	return &RegisterResult{
		AccountID: account.ID,
		Role:      account.Role,
		Email:     account.Email,
	}, nil
}

// buildAccountInput validates the payload and converts it to a normalized,
// fully hashed [NewAccountInput]. The switch is exhaustive over the sealed
// registration set.
func (e *Engine) buildAccountInput(reg Registration) (NewAccountInput, error) {
	switch r := reg.(type) {
	case OrganizationRegistration:
		if err := e.validateOrganizationRegistration(r); err != nil {
			return NewAccountInput{}, err
		}
		secretHash, err := e.hasher.Hash(r.Password)
		if err != nil {
			return NewAccountInput{}, fmt.Errorf("hash password: %w", err)
		}
		return NewAccountInput{
			Role:               RoleOrganization,
			Email:              normalizeEmail(r.Email),
			SecretHash:         secretHash,
			OrganizationName:   trimmed(r.OrganizationName),
			RegistrationNumber: trimmed(r.RegistrationNumber),
			Documents:          r.Documents,
		}, nil

	case CompanyRegistration:
		if err := e.validateCompanyRegistration(r); err != nil {
			return NewAccountInput{}, err
		}
		secretHash, err := e.hasher.Hash(r.Password)
		if err != nil {
			return NewAccountInput{}, fmt.Errorf("hash password: %w", err)
		}
		answerHash, err := e.hasher.Hash(trimmed(r.SecurityAnswer))
		if err != nil {
			return NewAccountInput{}, fmt.Errorf("hash security answer: %w", err)
		}
		return NewAccountInput{
			Role:               RoleCompany,
			Email:              normalizeEmail(r.Email),
			SecretHash:         secretHash,
			CompanyName:        trimmed(r.CompanyName),
			TaxID:              trimmed(r.TaxID),
			SecurityAnswerHash: answerHash,
			Documents:          r.Documents,
		}, nil

	case ValidatorRegistration:
		if err := e.validateValidatorRegistration(r); err != nil {
			return NewAccountInput{}, err
		}
		codeHash, err := e.hasher.Hash(trimmed(r.VerificationCode))
		if err != nil {
			return NewAccountInput{}, fmt.Errorf("hash verification code: %w", err)
		}
		return NewAccountInput{
			Role:                 RoleValidator,
			Email:                normalizeEmail(r.Email),
			AadhaarNumber:        normalizeDigits(r.AadhaarNumber),
			PhoneNumber:          normalizeDigits(r.PhoneNumber),
			VerificationCodeHash: codeHash,
			Documents:            r.Documents,
		}, nil

	default:
		return NewAccountInput{}, ErrRoleInvalid
	}
}

// checkUniqueness is a fast pre-check. Passing it does not guarantee the
// insert will succeed; the directory remains the arbiter under concurrency.
func (e *Engine) checkUniqueness(ctx context.Context, input NewAccountInput) error {
	if input.Email != "" {
		if _, err := e.directory.FindByEmail(ctx, input.Email); err == nil {
			return ErrAccountExists
		} else if !errors.Is(err, ErrAccountNotFound) {
			return fmt.Errorf("%w: email lookup failed", ErrDirectoryUnavailable)
		}
	}

	key := LookupKey{Role: input.Role}
	switch input.Role {
	case RoleOrganization:
		key.OrganizationName = input.OrganizationName
		key.RegistrationNumber = input.RegistrationNumber
	case RoleCompany:
		key.CompanyName = input.CompanyName
		key.TaxID = input.TaxID
	case RoleValidator:
		key.AadhaarNumber = input.AadhaarNumber
	default:
		return ErrRoleInvalid
	}

	if _, err := e.directory.FindByLookup(ctx, key); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("%w: key lookup failed", ErrDirectoryUnavailable)
	}
	return nil
}
