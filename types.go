package canopyauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	internalaudit "github.com/canopyhq/canopyauth/internal/audit"
	internalmetrics "github.com/canopyhq/canopyauth/internal/metrics"
)

// Role is the closed set of identity classes the engine can authenticate.
// Adding a role requires a new credential variant, a new registration variant,
// and a new arm in every exhaustive switch; there is no open-ended string tag.
type Role uint8

const (
	// RoleOrganization authenticates with organization name + registration
	// number and a long-lived password.
	RoleOrganization Role = iota
	// RoleCompany authenticates with company name + tax id and a long-lived
	// password. A hashed security answer is stored at registration.
	RoleCompany
	// RoleValidator authenticates with an aadhaar number and a hashed 6-digit
	// verification code. Validators never hold a password.
	RoleValidator
)

// String returns the wire name of the role, matching the values carried in
// session token claims.
func (r Role) String() string {
	switch r {
	case RoleOrganization:
		return "ORGANIZATION"
	case RoleCompany:
		return "COMPANY"
	case RoleValidator:
		return "VALIDATOR"
	default:
		return fmt.Sprintf("ROLE(%d)", uint8(r))
	}
}

// ParseRole converts a wire name back into a [Role]. Unknown names return
// [ErrRoleInvalid].
func ParseRole(name string) (Role, error) {
	switch name {
	case "ORGANIZATION":
		return RoleOrganization, nil
	case "COMPANY":
		return RoleCompany, nil
	case "VALIDATOR":
		return RoleValidator, nil
	default:
		return 0, ErrRoleInvalid
	}
}

// Principal is the authenticated identity produced by successful credential
// verification. It carries no secret material and no account document.
type Principal struct {
	ID   string
	Role Role
}

// Document is an opaque reference to an externally hosted file attached to an
// account at registration. The engine passes these through untouched.
type Document struct {
	FileID string
	Name   string
	URL    string
}

// Account is the unified identity record held by the [AccountDirectory].
// Exactly one of SecretHash or VerificationCodeHash is meaningfully populated,
// determined by Role. Hash fields never leave the engine.
type Account struct {
	ID    string
	Role  Role
	Email string

	// SecretHash is the one-way hash of the account password. Populated for
	// RoleOrganization and RoleCompany only.
	SecretHash string

	// RoleOrganization identity fields.
	OrganizationName   string
	RegistrationNumber string

	// RoleCompany identity fields. SecurityAnswerHash is stored at
	// registration and is not consulted during login.
	CompanyName        string
	TaxID              string
	SecurityAnswerHash string

	// RoleValidator identity fields. VerificationCodeHash is the record's
	// only credential.
	AadhaarNumber        string
	PhoneNumber          string
	VerificationCodeHash string

	Documents []Document

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LookupKey selects at most one account within a role. Only the fields
// belonging to Role are consulted; directories must treat the rest as empty.
type LookupKey struct {
	Role Role

	OrganizationName   string
	RegistrationNumber string

	CompanyName string
	TaxID       string

	AadhaarNumber string
}

// AccountDirectory is the storage contract the engine consumes. Implementations
// must return [ErrAccountNotFound] for misses and [ErrDuplicateAccount] when
// Insert would violate a uniqueness constraint (email globally, or the
// role-scoped compound key). The directory, not the engine, arbitrates the
// race between two concurrent inserts for the same key.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByLookup(ctx context.Context, key LookupKey) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Insert(ctx context.Context, input NewAccountInput) (*Account, error)
}

// NewAccountInput is the normalized, hash-bearing record handed to
// [AccountDirectory.Insert]. All secret fields arrive already hashed.
type NewAccountInput struct {
	Role  Role
	Email string

	SecretHash string

	OrganizationName   string
	RegistrationNumber string

	CompanyName        string
	TaxID              string
	SecurityAnswerHash string

	AadhaarNumber        string
	PhoneNumber          string
	VerificationCodeHash string

	Documents []Document
}

// Credentials is the sealed union of per-role login payloads. Exactly three
// types implement it: [OrganizationCredentials], [CompanyCredentials], and
// [ValidatorCredentials].
type Credentials interface {
	// CredentialRole reports which role this payload authenticates.
	CredentialRole() Role

	// lookup builds the directory key for this payload; submitted reports
	// the plaintext secret. Both are sealed so no payload shape outside this
	// package can reach the verifier.
	lookup() LookupKey
	submitted() string
}

// OrganizationCredentials is the ORGANIZATION login payload.
type OrganizationCredentials struct {
	OrganizationName   string
	RegistrationNumber string
	Password           string
}

// CredentialRole implements [Credentials].
func (OrganizationCredentials) CredentialRole() Role { return RoleOrganization }

func (c OrganizationCredentials) lookup() LookupKey {
	return LookupKey{
		Role:               RoleOrganization,
		OrganizationName:   c.OrganizationName,
		RegistrationNumber: c.RegistrationNumber,
	}
}

func (c OrganizationCredentials) submitted() string { return c.Password }

// CompanyCredentials is the COMPANY login payload.
type CompanyCredentials struct {
	CompanyName string
	TaxID       string
	Password    string
}

// CredentialRole implements [Credentials].
func (CompanyCredentials) CredentialRole() Role { return RoleCompany }

func (c CompanyCredentials) lookup() LookupKey {
	return LookupKey{
		Role:        RoleCompany,
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
	}
}

func (c CompanyCredentials) submitted() string { return c.Password }

// ValidatorCredentials is the VALIDATOR login payload. The verification code
// is a short-lived secret; there is no password.
type ValidatorCredentials struct {
	AadhaarNumber    string
	VerificationCode string
}

// CredentialRole implements [Credentials].
func (ValidatorCredentials) CredentialRole() Role { return RoleValidator }

func (c ValidatorCredentials) lookup() LookupKey {
	return LookupKey{
		Role:          RoleValidator,
		AadhaarNumber: normalizeDigits(c.AadhaarNumber),
	}
}

func (c ValidatorCredentials) submitted() string { return c.VerificationCode }

// Registration is the sealed union of per-role sign-up payloads. Exactly three
// types implement it: [OrganizationRegistration], [CompanyRegistration], and
// [ValidatorRegistration].
type Registration interface {
	// RegistrationRole reports which role this payload creates.
	RegistrationRole() Role

	registration()
}

// OrganizationRegistration is the ORGANIZATION sign-up payload.
type OrganizationRegistration struct {
	Email              string
	Password           string
	OrganizationName   string
	RegistrationNumber string
	Documents          []Document
}

// RegistrationRole implements [Registration].
func (OrganizationRegistration) RegistrationRole() Role { return RoleOrganization }

func (OrganizationRegistration) registration() {}

// CompanyRegistration is the COMPANY sign-up payload. SecurityAnswer is hashed
// before storage and never persisted in plaintext.
type CompanyRegistration struct {
	Email          string
	Password       string
	CompanyName    string
	TaxID          string
	SecurityAnswer string
	Documents      []Document
}

// RegistrationRole implements [Registration].
func (CompanyRegistration) RegistrationRole() Role { return RoleCompany }

func (CompanyRegistration) registration() {}

// ValidatorRegistration is the VALIDATOR sign-up payload. Email is optional
// for validators; when present it participates in the global uniqueness check.
type ValidatorRegistration struct {
	Email            string
	AadhaarNumber    string
	PhoneNumber      string
	VerificationCode string
	Documents        []Document
}

// RegistrationRole implements [Registration].
func (ValidatorRegistration) RegistrationRole() Role { return RoleValidator }

func (ValidatorRegistration) registration() {}

// RegisterResult is returned by [Engine.Register]. It never includes hash or
// secret fields.
type RegisterResult struct {
	AccountID string
	Role      Role
	Email     string
}

// LoginResult is returned by [Engine.Login]. Token is the signed session token
// and Cookie is the transport envelope carrying it; handlers set the cookie
// verbatim with http.SetCookie.
type LoginResult struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
	Cookie    *http.Cookie
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter or histogram bucket in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess counts successful authentications across all roles.
	MetricLoginSuccess = MetricID(internalmetrics.MetricLoginSuccess)
	// MetricLoginFailure counts rejected authentications (unknown identity
	// and wrong secret are deliberately not distinguished).
	MetricLoginFailure = MetricID(internalmetrics.MetricLoginFailure)
	// MetricRegisterSuccess counts created accounts.
	MetricRegisterSuccess = MetricID(internalmetrics.MetricRegisterSuccess)
	// MetricRegisterDuplicate counts registrations rejected on a uniqueness
	// key, whether by the pre-check or the directory insert.
	MetricRegisterDuplicate = MetricID(internalmetrics.MetricRegisterDuplicate)
	// MetricRegisterInvalid counts registrations rejected by field validation.
	MetricRegisterInvalid = MetricID(internalmetrics.MetricRegisterInvalid)
	// MetricLogout counts logout envelope issuances.
	MetricLogout = MetricID(internalmetrics.MetricLogout)
	// MetricTokenRevoked counts tokens added to the revocation denylist.
	MetricTokenRevoked = MetricID(internalmetrics.MetricTokenRevoked)
	// MetricAuthorizeSuccess counts guard passes.
	MetricAuthorizeSuccess = MetricID(internalmetrics.MetricAuthorizeSuccess)
	// MetricAuthorizeUnauthenticated counts guard rejections for missing,
	// invalid, expired, revoked, or orphaned tokens.
	MetricAuthorizeUnauthenticated = MetricID(internalmetrics.MetricAuthorizeUnauthenticated)
	// MetricAuthorizeForbidden counts guard rejections for role mismatch.
	MetricAuthorizeForbidden = MetricID(internalmetrics.MetricAuthorizeForbidden)
	// MetricAuthorizeLatency is the guard-path latency histogram.
	MetricAuthorizeLatency = MetricID(internalmetrics.MetricAuthorizeLatency)

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
