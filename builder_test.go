package canopyauth

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildRequiresSigningKey(t *testing.T) {
	cfg := testConfig()
	cfg.Token.SigningKey = nil

	_, err := New().
		WithConfig(cfg).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil {
		t.Fatal("expected build failure without signing key")
	}
	if !strings.Contains(err.Error(), "SigningKey") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRequiresDirectory(t *testing.T) {
	_, err := New().
		WithConfig(testConfig()).
		Build()
	if err == nil {
		t.Fatal("expected build failure without directory")
	}
}

func TestBuildRequiresRedisForRevocation(t *testing.T) {
	cfg := testConfig()
	cfg.Revocation.Enabled = true

	_, err := New().
		WithConfig(cfg).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil {
		t.Fatal("expected build failure without redis client")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().
		WithConfig(testConfig()).
		WithDirectory(newMockDirectory())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuildDefaultSessionLifetime(t *testing.T) {
	engine := newTestEngine(t, nil)
	if ttl := engine.SessionTTL(); ttl != 7*24*time.Hour {
		t.Fatalf("session TTL %v, want 168h", ttl)
	}
}

func TestProductionModeRejectsInsecureCookie(t *testing.T) {
	cfg := testConfig()
	cfg.Security.ProductionMode = true
	cfg.Cookie.AllowInsecure = true

	_, err := New().
		WithConfig(cfg).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil {
		t.Fatal("expected production mode to reject AllowInsecure")
	}
}

func TestProductionModeRejectsShortKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.ProductionMode = true
	cfg.Token.SigningKey = []byte("short-key")

	_, err := New().
		WithConfig(cfg).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil {
		t.Fatal("expected production mode to reject a short hs256 key")
	}
}

func TestAuditEventsReachSink(t *testing.T) {
	sink := NewChannelSink(16)
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	engine, err := New().
		WithConfig(cfg).
		WithDirectory(newMockDirectory()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	registerOrganization(t, engine)
	_, _ = engine.Login(context.Background(), OrganizationCredentials{
		OrganizationName:   "Relief Works",
		RegistrationNumber: "REG-1001",
		Password:           "wrongpass99",
	})

	engine.Close()

	seen := map[string]bool{}
	for {
		select {
		case event := <-sink.Events():
			seen[event.EventType] = true
			if event.EventType == "login_failure" && event.Success {
				t.Fatal("login_failure event marked successful")
			}
		default:
			if !seen["register_success"] || !seen["login_failure"] {
				t.Fatalf("missing audit events, saw %v", seen)
			}
			return
		}
	}
}
