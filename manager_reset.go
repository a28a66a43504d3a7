package sessionauth

import (
	"context"
)

// RequestPasswordReset asks the provider to email a reset code. Session
// state is unaffected either way.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	if m == nil || m.identity == nil {
		return ErrManagerNotReady
	}
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}

	start := m.now()
	err := m.identity.RequestPasswordReset(ctx, email)
	m.observeProviderLatency(start)
	m.metricInc(MetricPasswordResetRequest)
	if err != nil {
		translated := m.translateProvider(err)
		m.emitAudit(ctx, auditEventPasswordResetRequest, email, false, translated)
		return translated
	}

	m.emitAudit(ctx, auditEventPasswordResetRequest, email, true, nil)
	return nil
}

// ConfirmPasswordReset exchanges the emailed code for a new password. The
// code shape is checked locally first, like registration confirmation.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if m == nil || m.identity == nil {
		return ErrManagerNotReady
	}
	if err := validateInput(registerInput{Email: email, Password: newPassword}); err != nil {
		return err
	}
	if err := validateInput(confirmationCodeInput{Code: code}); err != nil {
		m.metricInc(MetricPasswordResetFailure)
		return err
	}

	start := m.now()
	err := m.identity.ConfirmPasswordReset(ctx, email, code, newPassword)
	m.observeProviderLatency(start)
	if err != nil {
		translated := m.translateProvider(err)
		m.metricInc(MetricPasswordResetFailure)
		m.emitAudit(ctx, auditEventPasswordResetConfirm, email, false, translated)
		return translated
	}

	m.metricInc(MetricPasswordResetSuccess)
	m.emitAudit(ctx, auditEventPasswordResetConfirm, email, true, nil)
	return nil
}
