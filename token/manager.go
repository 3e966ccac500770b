package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs and verifies with one shared symmetric key.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with a private key and verifies with a public key.
	MethodEd25519 SigningMethod = "ed25519"
)

// Config holds the signing material and lifetime for issued sessions.
// The key is mandatory; there is no fallback.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// Manager issues and parses session tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// SessionClaims is the decoded session token payload. Subject carries the
// principal id and ID the unique token id used by the revocation denylist.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a ready Manager. A zero TTL, an
// unsupported method, or missing key material is an error.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires signing key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue creates a signed session token for the given principal id and role.
// It returns the compact token, its token id (jti), and the expiry instant.
func (m *Manager) Issue(principalID, role string) (string, string, time.Time, error) {
	if principalID == "" {
		return "", "", time.Time{}, errors.New("empty principal id")
	}
	if role == "" {
		return "", "", time.Time{}, errors.New("empty role")
	}

	now := time.Now()
	expiresAt := now.Add(m.config.TTL)
	jti := uuid.NewString()

	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    m.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(m.signingMethod(), claims)

	signKey, err := m.signKey()
	if err != nil {
		return "", "", time.Time{}, err
	}

	signed, err := tok.SignedString(signKey)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return signed, jti, expiresAt, nil
}

// Parse verifies signature and expiry and returns the decoded claims. Any
// structural, signature, or temporal failure yields an error; callers must
// treat all of them as an unauthenticated session.
func (m *Manager) Parse(tokenStr string) (*SessionClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.signingMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.signingMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || claims.Role == "" || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func (m *Manager) signingMethod() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (m *Manager) signKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(m.config.PrivateKey)
	}
}

func (m *Manager) verifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPublicKey(m.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
