package canopyauth

import (
	"fmt"
	"strings"
	"unicode"
)

// normalizeDigits strips spaces and separator hyphens from numeric identity
// strings so "1234 5678 9012" and "123456789012" resolve to the same account.
func normalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isDigits reports whether s is non-empty and consists solely of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail is a structural check, not a deliverability check. Anything with
// exactly one @, a non-empty local part, and a dotted domain passes.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// checkPassword appends field errors for every policy violation rather than
// stopping at the first, so callers see the complete fix list in one pass.
func (e *Engine) checkPassword(verr *ValidationError, field, password string) {
	if password == "" {
		verr.add(field, "is required")
		return
	}
	if len(password) < e.config.Security.MinPasswordLength {
		verr.add(field, fmt.Sprintf("must be at least %d characters", e.config.Security.MinPasswordLength))
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		verr.add(field, "must contain at least one letter and one digit")
	}
}

func (e *Engine) checkRequiredEmail(verr *ValidationError, email string) {
	switch {
	case email == "":
		verr.add("email", "is required")
	case !validEmail(email):
		verr.add("email", "is not a valid email address")
	}
}

func (e *Engine) validateOrganizationRegistration(reg OrganizationRegistration) error {
	verr := &ValidationError{}
	e.checkRequiredEmail(verr, normalizeEmail(reg.Email))
	e.checkPassword(verr, "password", reg.Password)
	if strings.TrimSpace(reg.OrganizationName) == "" {
		verr.add("organizationName", "is required")
	}
	if strings.TrimSpace(reg.RegistrationNumber) == "" {
		verr.add("registrationNumber", "is required")
	}
	return verr.orNil()
}

func (e *Engine) validateCompanyRegistration(reg CompanyRegistration) error {
	verr := &ValidationError{}
	e.checkRequiredEmail(verr, normalizeEmail(reg.Email))
	e.checkPassword(verr, "password", reg.Password)
	if strings.TrimSpace(reg.CompanyName) == "" {
		verr.add("companyName", "is required")
	}
	if strings.TrimSpace(reg.TaxID) == "" {
		verr.add("taxId", "is required")
	}
	if strings.TrimSpace(reg.SecurityAnswer) == "" {
		verr.add("securityAnswer", "is required")
	}
	return verr.orNil()
}

func (e *Engine) validateValidatorRegistration(reg ValidatorRegistration) error {
	verr := &ValidationError{}

	// Email is optional for validators, but when present it must be
	// well-formed because it participates in the global uniqueness check.
	if email := normalizeEmail(reg.Email); email != "" && !validEmail(email) {
		verr.add("email", "is not a valid email address")
	}

	aadhaar := normalizeDigits(reg.AadhaarNumber)
	switch {
	case aadhaar == "":
		verr.add("aadhaarNumber", "is required")
	case !isDigits(aadhaar) || len(aadhaar) != 12:
		verr.add("aadhaarNumber", "must be exactly 12 digits")
	}

	phone := normalizeDigits(reg.PhoneNumber)
	switch {
	case phone == "":
		verr.add("phoneNumber", "is required")
	case !isDigits(phone) || len(phone) != 10:
		verr.add("phoneNumber", "must be exactly 10 digits")
	}

	code := strings.TrimSpace(reg.VerificationCode)
	switch {
	case code == "":
		verr.add("verificationCode", "is required")
	case !isDigits(code) || len(code) != 6:
		verr.add("verificationCode", "must be exactly 6 digits")
	}

	return verr.orNil()
}
