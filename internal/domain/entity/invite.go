package entity

import "time"

// InviteTTL vigencia de una invitación desde su creación.
const InviteTTL = 72 * time.Hour

// Invite invitación por email para incorporar personal.
// Token es de un solo uso; AcceptedAt queda fijado al consumirlo.
type Invite struct {
	ID         string
	Email      string
	Role       string
	Token      string // único
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedBy  string // UserID del admin que invita
	CreatedAt  time.Time
}

// Usable indica si la invitación puede consumirse en el instante now.
func (i *Invite) Usable(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
