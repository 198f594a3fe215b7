package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(search string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
	// AdjustStock aplica un delta con signo al contador de stock en una sola
	// sentencia server-side (stock = stock + delta) y devuelve el stock
	// resultante. Retorna domain.ErrNotFound si el producto no existe y
	// domain.ErrInsufficientStock si el resultado quedaría negativo, sin
	// escribir nada en ese caso.
	AdjustStock(productID string, delta int64) (int64, error)
}
