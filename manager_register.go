package sessionauth

import (
	"context"
)

// Register creates an account with the provider. On success the machine
// moves to pending-confirmation; the account cannot sign in until the
// emailed code is confirmed.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if m == nil || m.identity == nil {
		return ErrManagerNotReady
	}
	if err := validateInput(registerInput{Email: email, Password: password}); err != nil {
		return err
	}

	start := m.now()
	err := m.identity.Register(ctx, email, password)
	m.observeProviderLatency(start)
	if err != nil {
		translated := m.translateProvider(err)
		m.metricInc(MetricRegisterFailure)
		m.emitAudit(ctx, auditEventRegister, email, false, translated)
		return translated
	}

	m.setState(StatePendingConfirmation)
	m.metricInc(MetricRegisterSuccess)
	m.emitAudit(ctx, auditEventRegister, email, true, nil)
	return nil
}

// ConfirmRegistration submits the emailed confirmation code. Codes that are
// not exactly six digits are rejected locally, before any provider call.
// Confirmation never authenticates by itself: on success the machine
// returns to anonymous and the user signs in explicitly.
func (m *Manager) ConfirmRegistration(ctx context.Context, email, code string) error {
	if m == nil || m.identity == nil {
		return ErrManagerNotReady
	}
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}
	if err := validateInput(confirmationCodeInput{Code: code}); err != nil {
		m.metricInc(MetricConfirmFailure)
		return err
	}

	start := m.now()
	err := m.identity.ConfirmRegistration(ctx, email, code)
	m.observeProviderLatency(start)
	if err != nil {
		translated := m.translateProvider(err)
		m.metricInc(MetricConfirmFailure)
		m.emitAudit(ctx, auditEventConfirmRegistration, email, false, translated)
		return translated
	}

	m.mu.Lock()
	if m.state == StatePendingConfirmation {
		m.state = StateAnonymous
	}
	m.mu.Unlock()

	m.metricInc(MetricConfirmSuccess)
	m.emitAudit(ctx, auditEventConfirmRegistration, email, true, nil)
	return nil
}

// ResendConfirmationCode asks the provider to send a fresh code.
func (m *Manager) ResendConfirmationCode(ctx context.Context, email string) error {
	if m == nil || m.identity == nil {
		return ErrManagerNotReady
	}
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}

	start := m.now()
	err := m.identity.ResendConfirmationCode(ctx, email)
	m.observeProviderLatency(start)
	m.metricInc(MetricResendConfirmation)
	if err != nil {
		translated := m.translateProvider(err)
		m.emitAudit(ctx, auditEventResendConfirmation, email, false, translated)
		return translated
	}

	m.emitAudit(ctx, auditEventResendConfirmation, email, true, nil)
	return nil
}
