package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	canopyauth "github.com/canopyhq/canopyauth"
)

func orgInput(email, name, regNo string) canopyauth.NewAccountInput {
	return canopyauth.NewAccountInput{
		Role:               canopyauth.RoleOrganization,
		Email:              email,
		SecretHash:         "$argon2id$stub",
		OrganizationName:   name,
		RegistrationNumber: regNo,
	}
}

func TestInsertAndFind(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	created, err := dir.Insert(ctx, orgInput("a@x.com", "GreenCo", "REG1"))
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	byEmail, err := dir.FindByEmail(ctx, "A@X.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatal("expected email lookup to be case-insensitive")
	}

	byKey, err := dir.FindByLookup(ctx, canopyauth.LookupKey{
		Role:               canopyauth.RoleOrganization,
		OrganizationName:   "GreenCo",
		RegistrationNumber: "REG1",
	})
	if err != nil {
		t.Fatalf("FindByLookup error: %v", err)
	}
	if byKey.ID != created.ID {
		t.Fatal("expected compound key lookup to resolve the account")
	}

	if _, err := dir.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if _, err := dir.FindByID(ctx, "nope"); !errors.Is(err, canopyauth.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestInsertRejectsDuplicateEmail(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	if _, err := dir.Insert(ctx, orgInput("a@x.com", "GreenCo", "REG1")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	_, err := dir.Insert(ctx, orgInput("a@x.com", "OtherCo", "REG2"))
	if !errors.Is(err, canopyauth.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestInsertRejectsDuplicateCompoundKey(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	if _, err := dir.Insert(ctx, orgInput("a@x.com", "GreenCo", "REG1")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	_, err := dir.Insert(ctx, orgInput("b@x.com", "greenco", "REG1"))
	if !errors.Is(err, canopyauth.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for same (role,name,regNo), got %v", err)
	}
}

func TestCompoundKeysAreRoleScoped(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	if _, err := dir.Insert(ctx, canopyauth.NewAccountInput{
		Role:          canopyauth.RoleValidator,
		AadhaarNumber: "123456789012",
		PhoneNumber:   "9876543210",

		VerificationCodeHash: "$argon2id$stub",
	}); err != nil {
		t.Fatalf("Insert validator error: %v", err)
	}

	// A company whose fields happen to collide textually with another role's
	// key space must still insert cleanly.
	if _, err := dir.Insert(ctx, canopyauth.NewAccountInput{
		Role:        canopyauth.RoleCompany,
		Email:       "c@x.com",
		SecretHash:  "$argon2id$stub",
		CompanyName: "123456789012",
		TaxID:       "TAX1",
	}); err != nil {
		t.Fatalf("Insert company error: %v", err)
	}
}

func TestConcurrentInsertSameKeyOneWinner(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = dir.Insert(ctx, orgInput("", "GreenCo", "REG1"))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, canopyauth.ErrDuplicateAccount):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != racers-1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d conflicts", wins, conflicts)
	}
}

func TestFindReturnsCopies(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	created, err := dir.Insert(ctx, canopyauth.NewAccountInput{
		Role:               canopyauth.RoleOrganization,
		Email:              "a@x.com",
		SecretHash:         "$argon2id$stub",
		OrganizationName:   "GreenCo",
		RegistrationNumber: "REG1",
		Documents:          []canopyauth.Document{{FileID: "f1", Name: "deed.pdf", URL: "https://files/f1"}},
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	created.SecretHash = "tampered"
	created.Documents[0].Name = "tampered"

	fresh, err := dir.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if fresh.SecretHash != "$argon2id$stub" || fresh.Documents[0].Name != "deed.pdf" {
		t.Fatal("expected stored record to be isolated from returned copies")
	}
}

func TestDelete(t *testing.T) {
	dir := NewMemory()
	ctx := context.Background()

	created, err := dir.Insert(ctx, orgInput("a@x.com", "GreenCo", "REG1"))
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if err := dir.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := dir.FindByID(ctx, created.ID); !errors.Is(err, canopyauth.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound after delete, got %v", err)
	}

	// Keys are released: the same identity can register again.
	if _, err := dir.Insert(ctx, orgInput("a@x.com", "GreenCo", "REG1")); err != nil {
		t.Fatalf("reinsert after delete: %v", err)
	}

	if err := dir.Delete(ctx, "nope"); !errors.Is(err, canopyauth.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
