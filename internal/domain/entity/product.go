package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es un contador entero >= 0 que solo muta el ledger de movimientos;
// los campos administrativos (nombre, SKU, categoría, marca, precio) se editan aparte.
type Product struct {
	ID        string
	SKU       string // único
	Name      string
	Category  string // opcional
	Brand     string // opcional
	Price     decimal.Decimal
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
