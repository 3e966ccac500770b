package canopyauth

import (
	"errors"
	"net/http"
	"time"
)

// Config is the process-wide configuration established once through
// [Builder.Build] and treated as immutable thereafter. Key material is cloned
// on the way in; callers cannot mutate a built engine's config.
type Config struct {
	Token      TokenConfig
	Cookie     CookieConfig
	Secret     SecretConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Security   SecurityConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures the signed session token. SigningKey is mandatory:
// there is no environment fallback and no default key, in any mode.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	SigningKey    []byte
	PublicKey     []byte // ed25519 only
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig describes the transport envelope. Name defaults to "token",
// Path to "/". The cookie is always HttpOnly and SameSite=Strict; Secure is
// set unless AllowInsecure is true (local development only).
type CookieConfig struct {
	Name          string
	Path          string
	Domain        string
	AllowInsecure bool
}

/*
====================================
SECRET CONFIG
====================================
*/

// SecretConfig holds the argon2id cost parameters used for every secret
// class: passwords, verification codes, and security answers.
type SecretConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig enables the optional server-side denylist. When enabled,
// [Builder.Build] requires a Redis client and Logout denylists the token id
// for the token's remaining lifetime.
type RevocationConfig struct {
	Enabled bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig gathers cross-cutting policy. MinPasswordLength applies to
// ORGANIZATION and COMPANY registration; validators have no password.
type SecurityConfig struct {
	ProductionMode    bool
	MinPasswordLength int
}

// DefaultConfig returns the baseline configuration: 7-day sessions, HS256
// signing (key still caller-supplied), strict cookie attributes, and argon2id
// parameters at the production floor. Audit and metrics start disabled.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:           7 * 24 * time.Hour,
			SigningMethod: "hs256",
			Leeway:        30 * time.Second,
		},
		Cookie: CookieConfig{
			Name:          "token",
			Path:          "/",
			AllowInsecure: false,
		},
		Secret: SecretConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Revocation: RevocationConfig{
			Enabled: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			ProductionMode:    false,
			MinPasswordLength: 8,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningKey = cloneBytes(cfg.Token.SigningKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks the configuration for internal consistency. A missing
// signing key is a configuration failure: Build aborts rather than degrading
// to a guessable default.
func (c *Config) Validate() error {
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be > 0")
	}
	if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
		return errors.New("unsupported Token signing method")
	}
	if len(c.Token.SigningKey) == 0 {
		return errors.New("Token SigningKey is required; refusing to start without one")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires Token PublicKey")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	// Cookie
	if c.Cookie.Name == "" {
		return errors.New("Cookie Name must not be empty")
	}
	if c.Cookie.Path == "" {
		return errors.New("Cookie Path must not be empty")
	}

	// Secret
	if c.Secret.Memory < 8*1024 {
		return errors.New("Secret Memory must be >= 8192 KB")
	}
	if c.Secret.Time < 1 {
		return errors.New("Secret Time must be >= 1")
	}
	if c.Secret.Parallelism < 1 {
		return errors.New("Secret Parallelism must be >= 1")
	}
	if c.Secret.SaltLength < 16 {
		return errors.New("Secret SaltLength must be >= 16")
	}
	if c.Secret.KeyLength < 16 {
		return errors.New("Secret KeyLength must be >= 16")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	// Security
	if c.Security.MinPasswordLength < 8 {
		return errors.New("MinPasswordLength must be >= 8")
	}

	if c.Security.ProductionMode {
		if c.Cookie.AllowInsecure {
			return errors.New("ProductionMode requires Secure cookies")
		}
		if c.Token.SigningMethod == "hs256" && len(c.Token.SigningKey) < 32 {
			return errors.New("ProductionMode requires hs256 key length >= 256 bits")
		}
		if c.Token.TTL > 30*24*time.Hour {
			return errors.New("ProductionMode requires Token TTL <= 30d")
		}
		if c.Secret.Memory < 64*1024 {
			return errors.New("ProductionMode requires Secret Memory >= 65536 KB")
		}
		if c.Secret.Time < 2 {
			return errors.New("ProductionMode requires Secret Time >= 2")
		}
		if c.Secret.KeyLength < 32 {
			return errors.New("ProductionMode requires Secret KeyLength >= 32")
		}
	}

	return nil
}

// cookieSameSite is fixed: the envelope contract pins SameSite=Strict.
const cookieSameSite = http.SameSiteStrictMode
