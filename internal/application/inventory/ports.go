package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el ajuste de stock
// y la escritura del movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// MovementEvent evento de dominio emitido tras confirmar un movimiento.
type MovementEvent struct {
	Action     string    `json:"action"` // created | updated | deleted
	MovementID string    `json:"movement_id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int64     `json:"quantity"`
	StockAfter int64     `json:"stock_after"`
	At         time.Time `json:"at"`
}

// EventPublisher publica eventos de movimiento hacia el bus (Kafka o Noop).
// Se invoca después del Commit; un fallo aquí no revierte el movimiento.
type EventPublisher interface {
	PublishMovementEvent(ctx context.Context, event MovementEvent) error
}
