// Package ledger concentra la aritmética del ledger de stock: el signo que
// aporta cada tipo de movimiento y el delta que aplica sobre el contador del
// producto. Invariante: product.Stock = suma de los deltas de todos los
// movimientos vigentes del producto, y nunca baja de cero.
package ledger

import (
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SignOf devuelve el signo que aporta un tipo de movimiento al stock:
// +1 para ARRIVAL, −1 para PICKUP y DELIVERY. El signo nunca lo decide el
// caller; se deriva siempre del tipo, en este único lugar.
func SignOf(movementType string) (int64, error) {
	switch movementType {
	case entity.MovementTypeArrival:
		return +1, nil
	case entity.MovementTypePickup, entity.MovementTypeDelivery:
		return -1, nil
	default:
		return 0, domain.NewValidationError("type")
	}
}

// DeltaOf devuelve el delta con signo que un movimiento (tipo, cantidad)
// aplica al stock. La cantidad debe ser un entero positivo.
func DeltaOf(movementType string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("quantity")
	}
	sign, err := SignOf(movementType)
	if err != nil {
		return 0, err
	}
	return sign * quantity, nil
}

// Reversal devuelve el delta que deshace exactamente la contribución dada.
func Reversal(delta int64) int64 { return -delta }
