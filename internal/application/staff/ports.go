package staff

import "context"

// Mailer envía correos salientes. La implementación SMTP vive en
// infrastructure/mailer; en tests se reemplaza por un fake.
type Mailer interface {
	// SendInvite envía el email de invitación con el enlace de alta.
	SendInvite(ctx context.Context, to, role, inviteURL string) error
}
