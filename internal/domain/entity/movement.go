package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeArrival  = "ARRIVAL"  // llegada de mercancía (+)
	MovementTypePickup   = "PICKUP"   // retiro en local (−)
	MovementTypeDelivery = "DELIVERY" // despacho a domicilio (−)
)

// Movement registra un cambio de cantidad sobre un producto.
// Quantity siempre es positivo; el signo lo deriva el ledger a partir de Type.
// Campos requeridos según tipo:
//   - ARRIVAL:  ArrivalDate
//   - DELIVERY: DeliveryDate, DeliveryCompany, OrderNumber
//   - PICKUP:   PickupBy, PickupDate, OrderNumber, SKU
type Movement struct {
	ID        string
	Type      string
	Quantity  int64
	ProductID string
	UserID    string // quién lo registró

	ArrivalDate     *time.Time
	DeliveryDate    *time.Time
	DeliveryCompany string
	PickupBy        string
	PickupDate      *time.Time
	OrderNumber     string
	SKU             string
	Notes           string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joins de lectura para listados (no se persisten en movements).
	ProductName string
	UserName    string
}
