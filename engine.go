package canopyauth

import (
	"time"

	"github.com/canopyhq/canopyauth/revoke"
	"github.com/canopyhq/canopyauth/secret"
	"github.com/canopyhq/canopyauth/token"
)

// Engine is the credential verification and session issuance core. Build one
// through [Builder.Build]; after that every method is safe for concurrent use.
// The engine holds no per-request state: sessions live entirely in the signed
// token, and the only writes it performs go through the [AccountDirectory]
// and, when enabled, the revocation denylist.
type Engine struct {
	config    Config
	directory AccountDirectory
	hasher    *secret.Hasher
	tokens    *token.Manager
	denylist  *revoke.Store
	audit     *auditDispatcher
	metrics   *Metrics

	// burnHash is verified against on identity-lookup misses so that an
	// unknown identity costs the same as a wrong secret.
	burnHash string
}

// Close flushes and stops the audit dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SessionTTL reports the configured session lifetime.
func (e *Engine) SessionTTL() time.Duration {
	if e == nil || e.tokens == nil {
		return 0
	}
	return e.tokens.TTL()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
