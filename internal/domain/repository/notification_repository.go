package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification (DIP).
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	GetByID(id string) (*entity.Notification, error)
	ListByUser(userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string) error
	MarkAllRead(userID string) error
}
