package entity

import "time"

// Tipos de notificación.
const (
	NotificationDeliveryStatus = "delivery_status"
	NotificationInviteAccepted = "invite_accepted"
)

// Notification aviso dirigido a un usuario.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
