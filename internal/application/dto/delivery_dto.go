package dto

import "time"

// CreateDeliveryRequest entrada para agendar una entrega.
type CreateDeliveryRequest struct {
	OrderNumber     string    `json:"order_number" validate:"required"`
	CustomerName    string    `json:"customer_name" validate:"required"`
	Address         string    `json:"address" validate:"required"`
	DeliveryCompany string    `json:"delivery_company"`
	ScheduledDate   time.Time `json:"scheduled_date" validate:"required"`
	AssignedTo      string    `json:"assigned_to"`
	Notes           string    `json:"notes"`
}

// UpdateDeliveryStatusRequest entrada para avanzar el workflow de una entrega.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in_transit delivered cancelled"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"order_number"`
	CustomerName    string    `json:"customer_name"`
	Address         string    `json:"address"`
	DeliveryCompany string    `json:"delivery_company"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	Status          string    `json:"status"`
	AssignedTo      string    `json:"assigned_to,omitempty"`
	AssignedName    string    `json:"assigned_name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DeliveryListResponse lista paginada de entregas.
type DeliveryListResponse struct {
	Items []DeliveryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
