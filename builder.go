package canopyauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/canopyhq/canopyauth/internal"
	"github.com/canopyhq/canopyauth/revoke"
	"github.com/canopyhq/canopyauth/secret"
	"github.com/canopyhq/canopyauth/token"
)

// Builder assembles an [Engine]. Configure with the With* methods and call
// [Builder.Build] once; a builder is single-use.
type Builder struct {
	config Config
	redis  *redis.Client

	directory AccountDirectory
	auditSink AuditSink

	built bool
}

// New creates a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKey sets the session token signing key without replacing the
// rest of the configuration.
func (b *Builder) WithSigningKey(key []byte) *Builder {
	b.config.Token.SigningKey = cloneBytes(key)
	return b
}

// WithDirectory supplies the account store the engine verifies against.
// Required.
func (b *Builder) WithDirectory(dir AccountDirectory) *Builder {
	b.directory = dir
	return b
}

// WithRedis supplies the Redis client backing the revocation denylist.
// Required when [RevocationConfig].Enabled is true, ignored otherwise.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink supplies the sink receiving audit events when audit is
// enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles guard-path latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. A missing
// signing key, a missing directory, or an enabled denylist without Redis is a
// build error; nothing degrades silently.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.directory == nil {
		return nil, errors.New("account directory required")
	}

	if cfg.Revocation.Enabled && b.redis == nil {
		return nil, errors.New("Revocation requires redis client")
	}

	hasher, err := secret.NewHasher(secret.Config{
		Memory:      cfg.Secret.Memory,
		Time:        cfg.Secret.Time,
		Parallelism: cfg.Secret.Parallelism,
		SaltLength:  cfg.Secret.SaltLength,
		KeyLength:   cfg.Secret.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		TTL:           cfg.Token.TTL,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.SigningKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	// A throwaway hash for the lookup-miss path, so unknown identities cost
	// one verification like everything else.
	burnPlain, err := internal.NewVerificationCode(10)
	if err != nil {
		return nil, err
	}
	burnHash, err := hasher.Hash(burnPlain)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cfg,
		directory: b.directory,
		hasher:    hasher,
		tokens:    tokens,
		burnHash:  burnHash,
	}

	if cfg.Revocation.Enabled {
		engine.denylist = revoke.NewStore(b.redis)
	}
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
