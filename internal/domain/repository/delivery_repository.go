package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery (DIP).
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	Update(delivery *entity.Delivery) error
	List(status string, limit, offset int) ([]*entity.Delivery, error)
}
