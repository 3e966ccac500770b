package canopyauth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockDirectory is an in-memory AccountDirectory for engine tests. It mirrors
// the directory contract: ErrAccountNotFound on misses, ErrDuplicateAccount
// on uniqueness conflicts, exactly one winner under concurrent inserts.
type mockDirectory struct {
	mu      sync.Mutex
	byID    map[string]*Account
	byEmail map[string]string
	byKey   map[string]string

	findErr   error
	insertErr error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
		byKey:   make(map[string]string),
	}
}

func (m *mockDirectory) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return m.byID[id], nil
}

func (m *mockDirectory) FindByLookup(_ context.Context, key LookupKey) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byKey[mockKey(key)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return m.byID[id], nil
}

func (m *mockDirectory) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	account, ok := m.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (m *mockDirectory) Insert(_ context.Context, input NewAccountInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}

	email := strings.ToLower(input.Email)
	key := mockKey(LookupKey{
		Role:               input.Role,
		OrganizationName:   input.OrganizationName,
		RegistrationNumber: input.RegistrationNumber,
		CompanyName:        input.CompanyName,
		TaxID:              input.TaxID,
		AadhaarNumber:      input.AadhaarNumber,
	})
	if email != "" {
		if _, exists := m.byEmail[email]; exists {
			return nil, ErrDuplicateAccount
		}
	}
	if _, exists := m.byKey[key]; exists {
		return nil, ErrDuplicateAccount
	}

	account := &Account{
		ID:                   uuid.NewString(),
		Role:                 input.Role,
		Email:                email,
		SecretHash:           input.SecretHash,
		OrganizationName:     input.OrganizationName,
		RegistrationNumber:   input.RegistrationNumber,
		CompanyName:          input.CompanyName,
		TaxID:                input.TaxID,
		SecurityAnswerHash:   input.SecurityAnswerHash,
		AadhaarNumber:        input.AadhaarNumber,
		PhoneNumber:          input.PhoneNumber,
		VerificationCodeHash: input.VerificationCodeHash,
		Documents:            input.Documents,
		CreatedAt:            time.Now().UTC(),
		UpdatedAt:            time.Now().UTC(),
	}
	m.byID[account.ID] = account
	if email != "" {
		m.byEmail[email] = account.ID
	}
	m.byKey[key] = account.ID
	return account, nil
}

func (m *mockDirectory) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	delete(m.byEmail, account.Email)
	for k, v := range m.byKey {
		if v == id {
			delete(m.byKey, k)
		}
	}
}

func mockKey(key LookupKey) string {
	switch key.Role {
	case RoleOrganization:
		return "org\x00" + strings.ToLower(key.OrganizationName) + "\x00" + key.RegistrationNumber
	case RoleCompany:
		return "com\x00" + strings.ToLower(key.CompanyName) + "\x00" + key.TaxID
	case RoleValidator:
		return "val\x00" + key.AadhaarNumber
	default:
		return "?\x00"
	}
}

func testSigningKey() []byte {
	return []byte("test-signing-key-32-bytes-long!!")
}

// testConfig keeps argon cost low so the suite stays fast.
func testConfig() Config {
	cfg := defaultConfig()
	cfg.Token.SigningKey = testSigningKey()
	cfg.Token.Issuer = "canopyauth-test"
	cfg.Secret.Memory = 16 * 1024
	cfg.Secret.Time = 1
	cfg.Secret.Parallelism = 1
	return cfg
}

func newTestEngine(t *testing.T, dir AccountDirectory) *Engine {
	t.Helper()
	if dir == nil {
		dir = newMockDirectory()
	}
	engine, err := New().
		WithConfig(testConfig()).
		WithDirectory(dir).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func registerOrganization(t *testing.T, engine *Engine) *RegisterResult {
	t.Helper()
	result, err := engine.Register(context.Background(), OrganizationRegistration{
		Email:              "org@example.com",
		Password:           "orgpass123",
		OrganizationName:   "Relief Works",
		RegistrationNumber: "REG-1001",
	})
	if err != nil {
		t.Fatalf("register organization: %v", err)
	}
	return result
}

func registerCompany(t *testing.T, engine *Engine) *RegisterResult {
	t.Helper()
	result, err := engine.Register(context.Background(), CompanyRegistration{
		Email:          "company@example.com",
		Password:       "companypass1",
		CompanyName:    "Acme Industries",
		TaxID:          "TAX-2002",
		SecurityAnswer: "first pet",
	})
	if err != nil {
		t.Fatalf("register company: %v", err)
	}
	return result
}

func registerValidator(t *testing.T, engine *Engine) *RegisterResult {
	t.Helper()
	result, err := engine.Register(context.Background(), ValidatorRegistration{
		Email:            "validator@example.com",
		AadhaarNumber:    "1234 5678 9012",
		PhoneNumber:      "9876543210",
		VerificationCode: "482913",
	})
	if err != nil {
		t.Fatalf("register validator: %v", err)
	}
	return result
}
