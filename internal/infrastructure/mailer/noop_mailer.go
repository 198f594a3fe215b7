package mailer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/staff"
)

var _ staff.Mailer = (*NoopMailer)(nil)

// NoopMailer no envía nada: solo loguea. Se usa cuando SMTP_HOST está vacío
// (dev y tests).
type NoopMailer struct {
	log zerolog.Logger
}

// NewNoopMailer construye el mailer nulo.
func NewNoopMailer(log zerolog.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

// SendInvite registra la invitación en el log en lugar de enviarla.
func (m *NoopMailer) SendInvite(_ context.Context, to, role, inviteURL string) error {
	m.log.Info().
		Str("to", to).
		Str("role", role).
		Str("invite_url", inviteURL).
		Msg("SMTP deshabilitado: invitación no enviada")
	return nil
}
