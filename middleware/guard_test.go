package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	canopyauth "github.com/canopyhq/canopyauth"
	"github.com/canopyhq/canopyauth/directory"
)

func newTestEngine(t *testing.T) *canopyauth.Engine {
	t.Helper()
	cfg := canopyauth.DefaultConfig()
	cfg.Token.SigningKey = []byte("test-signing-key-32-bytes-long!!")
	cfg.Secret.Memory = 16 * 1024
	cfg.Secret.Time = 1
	cfg.Secret.Parallelism = 1

	engine, err := canopyauth.New().
		WithConfig(cfg).
		WithDirectory(directory.NewMemory()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func login(t *testing.T, engine *canopyauth.Engine) *canopyauth.LoginResult {
	t.Helper()
	_, err := engine.Register(context.Background(), canopyauth.OrganizationRegistration{
		Email:              "org@example.com",
		Password:           "orgpass123",
		OrganizationName:   "Relief Works",
		RegistrationNumber: "REG-1001",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := engine.Login(context.Background(), canopyauth.OrganizationCredentials{
		OrganizationName:   "Relief Works",
		RegistrationNumber: "REG-1001",
		Password:           "orgpass123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return result
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Error("principal missing from context")
			http.Error(w, "missing principal", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(principal.Role.String()))
	})
}

func TestGuardAdmitsSessionCookie(t *testing.T) {
	engine := newTestEngine(t)
	result := login(t, engine)

	handler := Guard(engine)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(result.Cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Body.String() != "ORGANIZATION" {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestGuardAdmitsBearerFallback(t *testing.T) {
	engine := newTestEngine(t)
	result := login(t, engine)

	handler := Guard(engine)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestGuardRejectsMissingSession(t *testing.T) {
	engine := newTestEngine(t)

	handler := Guard(engine)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	engine := newTestEngine(t)

	handler := Guard(engine)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestGuardEnforcesRole(t *testing.T) {
	engine := newTestEngine(t)
	result := login(t, engine)

	handler := RequireValidator(engine)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(result.Cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}

	handler = RequireOrganization(engine)(protected(t))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestGuardRejectsNilEngine(t *testing.T) {
	handler := Guard(nil)(protected(t))
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}
