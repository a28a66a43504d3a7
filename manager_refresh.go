package sessionauth

import (
	"context"

	"github.com/prepwise/sessionauth/credstore"
)

const refreshFlightKey = "refresh"

// refreshSession coalesces concurrent refresh demand into one physical
// provider call: the first caller executes, late callers attach to the
// in-flight result, and every caller observes the same outcome, either the
// refreshed record or the same failure.
func (m *Manager) refreshSession(ctx context.Context) (*credstore.Record, error) {
	v, err, shared := m.refreshGroup.Do(refreshFlightKey, func() (interface{}, error) {
		// The flight must not die with the first caller's page
		// navigation while others still wait on it; the per-call
		// timeout inside the identity client keeps it bounded.
		return m.doRefresh(context.WithoutCancel(ctx))
	})
	if shared {
		m.metricInc(MetricRefreshCoalesced)
	}
	if err != nil {
		return nil, err
	}
	return v.(*credstore.Record), nil
}

func (m *Manager) doRefresh(ctx context.Context) (*credstore.Record, error) {
	rec := m.loadRecord(ctx)
	if !rec.Valid() {
		return nil, ErrNotAuthenticated
	}

	// A flight that finished between our caller's check and this one
	// already replaced the record; reuse it instead of refreshing twice.
	if rec.Remaining(m.now()) > m.config.Session.RefreshThreshold {
		return rec, nil
	}

	if rec.RefreshToken == "" {
		m.teardown(ctx, ErrNotAuthenticated)
		return nil, ErrNotAuthenticated
	}

	m.setState(StateRefreshing)

	start := m.now()
	bundle, err := m.identity.Refresh(ctx, rec.RefreshToken)
	m.observeProviderLatency(start)
	if err != nil {
		translated := m.translateProvider(err)
		m.metricInc(MetricRefreshFailure)
		m.emitAudit(ctx, auditEventRefresh, rec.Email, false, translated)
		// An unextendable session is torn down, not left half-valid.
		m.teardown(ctx, translated)
		return nil, translated
	}

	next := &credstore.Record{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		IDToken:      bundle.IDToken,
		Email:        rec.Email,
		ExpiresAt:    m.now().UnixMilli() + bundle.ExpiresIn*1000,
	}
	// Providers that do not rotate on refresh omit these fields.
	if next.RefreshToken == "" {
		next.RefreshToken = rec.RefreshToken
	}
	if next.IDToken == "" {
		next.IDToken = rec.IDToken
	}

	if err := m.store.Save(ctx, next); err != nil {
		m.log.Warn().Err(err).Msg("credential store save failed after refresh")
		m.teardown(ctx, err)
		return nil, ErrNotAuthenticated
	}

	m.setState(StateAuthenticated)
	m.metricInc(MetricRefreshSuccess)
	m.emitAudit(ctx, auditEventRefresh, next.Email, true, nil)

	return next, nil
}

// teardown clears the record and drops to anonymous. Used when a refresh
// attempt fails: the session is no longer extendable, and the user learns
// about it lazily, on their next authenticated action.
func (m *Manager) teardown(ctx context.Context, cause error) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("credential store clear failed during teardown")
	}
	m.setState(StateAnonymous)
	m.metricInc(MetricSessionTeardown)
	m.emitAudit(ctx, auditEventSessionTeardown, "", false, cause)
}
