package sessionauth

import (
	"context"
	"time"

	"github.com/prepwise/sessionauth/credstore"
)

// SignIn exchanges credentials for a token bundle and replaces the stored
// authorization record. A failed attempt leaves whatever session existed
// before untouched.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if m == nil || m.identity == nil || m.store == nil {
		return nil, ErrManagerNotReady
	}
	if err := validateInput(signInInput{Email: email, Password: password}); err != nil {
		return nil, err
	}

	m.setState(StateAuthenticating)

	start := m.now()
	bundle, err := m.identity.SignIn(ctx, email, password)
	m.observeProviderLatency(start)
	if err != nil {
		translated := m.translateProvider(err)
		m.setState(StateAnonymous)
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignIn, email, false, translated)
		return nil, translated
	}

	claims := parseIDTokenClaims(bundle.IDToken)
	recordEmail := claims.Email
	if recordEmail == "" {
		recordEmail = email
	}

	expiresAt := m.now().UnixMilli() + bundle.ExpiresIn*1000
	rec := &credstore.Record{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		IDToken:      bundle.IDToken,
		Email:        recordEmail,
		ExpiresAt:    expiresAt,
	}

	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Warn().Err(err).Msg("credential store save failed after sign-in")
		m.setState(StateAnonymous)
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignIn, email, false, err)
		return nil, ErrUnknown
	}

	m.setState(StateAuthenticated)
	m.metricInc(MetricSignInSuccess)
	m.emitAudit(ctx, auditEventSignIn, recordEmail, true, nil)

	return &SignInResult{
		Email:     recordEmail,
		ExpiresAt: time.UnixMilli(expiresAt),
	}, nil
}
