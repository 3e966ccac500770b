package directory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	canopyauth "github.com/canopyhq/canopyauth"
)

// Memory is an in-memory [canopyauth.AccountDirectory]. Safe for concurrent
// use. The zero value is not usable; construct with [NewMemory].
type Memory struct {
	mu sync.RWMutex

	byID    map[string]*canopyauth.Account
	byEmail map[string]string
	byKey   map[string]string
}

var _ canopyauth.AccountDirectory = (*Memory)(nil)

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		byID:    map[string]*canopyauth.Account{},
		byEmail: map[string]string{},
		byKey:   map[string]string{},
	}
}

// FindByEmail implements [canopyauth.AccountDirectory].
func (m *Memory) FindByEmail(ctx context.Context, email string) (*canopyauth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, canopyauth.ErrAccountNotFound
	}
	return cloneAccount(m.byID[id]), nil
}

// FindByLookup implements [canopyauth.AccountDirectory].
func (m *Memory) FindByLookup(ctx context.Context, key canopyauth.LookupKey) (*canopyauth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[compoundKey(key)]
	if !ok {
		return nil, canopyauth.ErrAccountNotFound
	}
	return cloneAccount(m.byID[id]), nil
}

// FindByID implements [canopyauth.AccountDirectory].
func (m *Memory) FindByID(ctx context.Context, id string) (*canopyauth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byID[id]
	if !ok {
		return nil, canopyauth.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// Insert implements [canopyauth.AccountDirectory]. Uniqueness of email and of
// the role compound key is checked and claimed under one lock, so of two
// racing inserts exactly one succeeds and the other observes
// [canopyauth.ErrDuplicateAccount].
func (m *Memory) Insert(ctx context.Context, input canopyauth.NewAccountInput) (*canopyauth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	account := &canopyauth.Account{
		ID:                   uuid.NewString(),
		Role:                 input.Role,
		Email:                normalizeEmail(input.Email),
		SecretHash:           input.SecretHash,
		OrganizationName:     input.OrganizationName,
		RegistrationNumber:   input.RegistrationNumber,
		CompanyName:          input.CompanyName,
		TaxID:                input.TaxID,
		SecurityAnswerHash:   input.SecurityAnswerHash,
		AadhaarNumber:        input.AadhaarNumber,
		PhoneNumber:          input.PhoneNumber,
		VerificationCodeHash: input.VerificationCodeHash,
		Documents:            append([]canopyauth.Document(nil), input.Documents...),
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	key := compoundKey(canopyauth.LookupKey{
		Role:               input.Role,
		OrganizationName:   input.OrganizationName,
		RegistrationNumber: input.RegistrationNumber,
		CompanyName:        input.CompanyName,
		TaxID:              input.TaxID,
		AadhaarNumber:      input.AadhaarNumber,
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if account.Email != "" {
		if _, exists := m.byEmail[account.Email]; exists {
			return nil, canopyauth.ErrDuplicateAccount
		}
	}
	if _, exists := m.byKey[key]; exists {
		return nil, canopyauth.ErrDuplicateAccount
	}

	m.byID[account.ID] = account
	if account.Email != "" {
		m.byEmail[account.Email] = account.ID
	}
	m.byKey[key] = account.ID

	return cloneAccount(account), nil
}

// Delete removes an account by id. Used by tests to model deleted-account
// tokens; returns [canopyauth.ErrAccountNotFound] for unknown ids.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[id]
	if !ok {
		return canopyauth.ErrAccountNotFound
	}

	delete(m.byID, id)
	if account.Email != "" {
		delete(m.byEmail, account.Email)
	}
	delete(m.byKey, compoundKey(canopyauth.LookupKey{
		Role:               account.Role,
		OrganizationName:   account.OrganizationName,
		RegistrationNumber: account.RegistrationNumber,
		CompanyName:        account.CompanyName,
		TaxID:              account.TaxID,
		AadhaarNumber:      account.AadhaarNumber,
	}))
	return nil
}

// Len reports the number of stored accounts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func compoundKey(key canopyauth.LookupKey) string {
	switch key.Role {
	case canopyauth.RoleOrganization:
		return "org\x00" + strings.ToLower(key.OrganizationName) + "\x00" + key.RegistrationNumber
	case canopyauth.RoleCompany:
		return "com\x00" + strings.ToLower(key.CompanyName) + "\x00" + key.TaxID
	case canopyauth.RoleValidator:
		return "val\x00" + key.AadhaarNumber
	default:
		return "unk\x00" + key.Role.String()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneAccount(account *canopyauth.Account) *canopyauth.Account {
	if account == nil {
		return nil
	}
	out := *account
	out.Documents = append([]canopyauth.Document(nil), account.Documents...)
	return &out
}
