package dto

import "time"

// MovementRequest body para crear o editar un movimiento de stock.
// Quantity siempre positiva; el signo se deriva de Type en el ledger.
// Campos requeridos según tipo: ver entity.Movement.
type MovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // ARRIVAL | PICKUP | DELIVERY
	Quantity  int64  `json:"quantity"`

	ArrivalDate     *time.Time `json:"arrival_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	DeliveryCompany string     `json:"delivery_company,omitempty"`
	PickupBy        string     `json:"pickup_by,omitempty"`
	PickupDate      *time.Time `json:"pickup_date,omitempty"`
	OrderNumber     string     `json:"order_number,omitempty"`
	SKU             string     `json:"sku,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento, enriquecida para listados.
type MovementResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`

	ArrivalDate     *time.Time `json:"arrival_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	DeliveryCompany string     `json:"delivery_company,omitempty"`
	PickupBy        string     `json:"pickup_by,omitempty"`
	PickupDate      *time.Time `json:"pickup_date,omitempty"`
	OrderNumber     string     `json:"order_number,omitempty"`
	SKU             string     `json:"sku,omitempty"`
	Notes           string     `json:"notes,omitempty"`

	ProductName string    `json:"product_name,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	Stock       int64     `json:"stock"` // stock del producto tras aplicar el movimiento
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
