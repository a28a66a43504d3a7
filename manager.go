package sessionauth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/prepwise/sessionauth/credstore"
)

// Manager owns the session lifecycle: it orchestrates identity provider
// calls, is the only writer of the credential store, decides when to
// refresh, and answers the two boundary queries every consumer depends on:
// "is the caller authenticated" and "give me a current bearer header".
//
// Construct exactly one Manager at application start via [Builder.Build] and
// pass it explicitly to consumers.
type Manager struct {
	config   Config
	identity IdentityClient
	store    credstore.Store
	audit    *auditDispatcher
	metrics  *Metrics
	log      zerolog.Logger
	now      func() time.Time

	refreshGroup singleflight.Group

	mu    sync.Mutex
	state State
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	if m == nil {
		return StateAnonymous
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		m.log.Debug().
			Stringer("from", prev).
			Stringer("to", next).
			Msg("session state transition")
	}
}

// Close releases background resources (the audit dispatcher).
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.audit != nil {
		m.audit.Close()
	}
}

// IsAuthenticated reports whether a structurally valid record exists whose
// access token is either still fresh or still extendable through its
// refresh token. Pure structural and expiry inspection; no provider call.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	if m == nil || m.store == nil {
		return false
	}

	rec := m.loadRecord(ctx)
	if !rec.Valid() {
		return false
	}
	if !rec.Expired(m.now()) {
		return true
	}
	return rec.RefreshToken != ""
}

// AuthorizationHeader returns a bearer header value built from a fresh
// access token, refreshing first when the remaining lifetime has dropped
// below the configured threshold. Returns ErrNotAuthenticated when no
// record exists or the refresh path is gone.
func (m *Manager) AuthorizationHeader(ctx context.Context) (string, error) {
	if m == nil || m.identity == nil || m.store == nil {
		return "", ErrManagerNotReady
	}

	rec := m.loadRecord(ctx)
	if !rec.Valid() {
		return "", ErrNotAuthenticated
	}

	if rec.Remaining(m.now()) > m.config.Session.RefreshThreshold {
		return bearerHeader(rec.AccessToken), nil
	}

	refreshed, err := m.refreshSession(ctx)
	if err != nil {
		return "", err
	}
	return bearerHeader(refreshed.AccessToken), nil
}

// CurrentPrincipal returns the signed-in user's identity, decoded from the
// stored record and its id-token claims. Role is display-only; it must
// never gate anything the server does not independently enforce.
func (m *Manager) CurrentPrincipal(ctx context.Context) (Principal, bool) {
	if m == nil || m.store == nil {
		return Principal{}, false
	}

	rec := m.loadRecord(ctx)
	if !rec.Valid() {
		return Principal{}, false
	}

	p := Principal{Email: rec.Email}
	claims := parseIDTokenClaims(rec.IDToken)
	if p.Email == "" {
		p.Email = claims.Email
	}
	p.Role = claims.Role
	if p.Email == "" {
		return Principal{}, false
	}
	return p, true
}

// SignOut clears the session. It never touches the network, always
// succeeds, and is idempotent: signing out twice leaves the same cleared
// state as once.
func (m *Manager) SignOut(ctx context.Context) {
	if m == nil || m.store == nil {
		return
	}

	if err := m.store.Clear(ctx); err != nil {
		// The session is still torn down locally; a stale record in a
		// remote backend expires on its own.
		m.log.Warn().Err(err).Msg("credential store clear failed during sign-out")
	}
	m.setState(StateAnonymous)
	m.metricInc(MetricSignOut)
	m.emitAudit(ctx, auditEventSignOut, "", true, nil)
}

// loadRecord reads the store, folding backend errors into "absent" so every
// ambiguous state fails closed to unauthenticated.
func (m *Manager) loadRecord(ctx context.Context) *credstore.Record {
	rec, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("credential store load failed")
		return nil
	}
	return rec
}

// translateProvider folds a provider failure into its taxonomy sentinel.
// Raw provider text stops here; callers and logs see category names only.
func (m *Manager) translateProvider(err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return Translate(pe.Code, pe.Message).Err()
	}
	return ErrUnknown
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) observeProviderLatency(start time.Time) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(MetricProviderLatency, m.now().Sub(start))
}

func (m *Manager) emitAudit(ctx context.Context, eventType, email string, success bool, opErr error) {
	if m == nil || m.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: m.now(),
		EventType: eventType,
		Email:     email,
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	m.audit.Emit(ctx, event)
}

// MetricsSnapshot exposes the lifecycle counters for exporters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under buffer pressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

func bearerHeader(accessToken string) string {
	return "Bearer " + accessToken
}
