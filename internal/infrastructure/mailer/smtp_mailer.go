// Package mailer implementa el puerto staff.Mailer sobre SMTP (gomail).
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/almacen-api/internal/application/staff"
)

var _ staff.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos reales vía SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

// NewSMTPMailer construye el mailer SMTP.
func NewSMTPMailer(host string, port int, user, password, from string, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log,
	}
}

// SendInvite envía el email de invitación con el enlace de alta.
func (m *SMTPMailer) SendInvite(_ context.Context, to, role, inviteURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Invitación al sistema de inventario")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Te invitaron a unirte al sistema de inventario con el rol <b>%s</b>.</p>
		<p><a href="%s">Completar el registro</a></p>
		<p>El enlace vence en 72 horas y solo puede usarse una vez.</p>`,
		role, inviteURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar invitación por SMTP: %w", err)
	}
	m.log.Debug().Str("to", to).Msg("email de invitación enviado")
	return nil
}
