package entity

import "time"

// Estados del workflow de una entrega.
const (
	DeliveryStatusScheduled = "scheduled"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// deliveryTransitions transiciones permitidas del workflow.
// delivered y cancelled son estados terminales.
var deliveryTransitions = map[string][]string{
	DeliveryStatusScheduled: {DeliveryStatusInTransit, DeliveryStatusCancelled},
	DeliveryStatusInTransit: {DeliveryStatusDelivered, DeliveryStatusCancelled},
	DeliveryStatusDelivered: {},
	DeliveryStatusCancelled: {},
}

// ValidDeliveryStatus indica si el estado es uno de los conocidos.
func ValidDeliveryStatus(status string) bool {
	_, ok := deliveryTransitions[status]
	return ok
}

// CanTransition indica si el workflow permite pasar de from a to.
func CanTransition(from, to string) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Delivery entrega programada a un cliente.
type Delivery struct {
	ID              string
	OrderNumber     string
	CustomerName    string
	Address         string
	DeliveryCompany string
	ScheduledDate   time.Time
	Status          string
	AssignedTo      string // UserID responsable
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join de lectura para listados.
	AssignedName string
}
