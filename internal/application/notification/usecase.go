package notification

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// NotificationUseCase consulta y marcado de notificaciones del usuario autenticado.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// ListByUser lista las notificaciones del usuario, opcionalmente solo las no leídas.
func (uc *NotificationUseCase) ListByUser(userID string, unreadOnly bool, page dto.PageRequest) ([]dto.NotificationResponse, error) {
	page.DefaultPage()
	notifications, err := uc.repo.ListByUser(userID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, *toNotificationResponse(n))
	}
	return items, nil
}

// MarkRead marca una notificación como leída. Solo el destinatario puede
// hacerlo; para cualquier otro usuario la notificación no existe.
func (uc *NotificationUseCase) MarkRead(userID, id string) error {
	n, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return domain.ErrNotFound
	}
	return uc.repo.MarkRead(id)
}

// MarkAllRead marca todas las notificaciones del usuario como leídas.
func (uc *NotificationUseCase) MarkAllRead(userID string) error {
	return uc.repo.MarkAllRead(userID)
}

func toNotificationResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}
	return &dto.NotificationResponse{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
