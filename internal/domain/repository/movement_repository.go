package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para Movement (DIP).
// Los listados devuelven los joins de lectura (ProductName, UserName).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	Update(movement *entity.Movement) error
	Delete(id string) error
	List(productID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	CountByProduct(productID string) (int64, error)
}
