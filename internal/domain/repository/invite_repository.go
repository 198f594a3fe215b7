package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// InviteRepository define el puerto de persistencia para Invite (DIP).
type InviteRepository interface {
	Create(invite *entity.Invite) error
	GetByToken(token string) (*entity.Invite, error)
	GetPendingByEmail(email string) (*entity.Invite, error)
	MarkAccepted(id string) error
	List(limit, offset int) ([]*entity.Invite, error)
}
