package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador de persistencia para entregas.
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliverySelect = `
	SELECT d.id, d.order_number, d.customer_name, d.address, d.delivery_company,
	       d.scheduled_date, d.status, COALESCE(d.assigned_to, ''), d.notes,
	       d.created_at, d.updated_at, COALESCE(u.name, '') AS assigned_name
	FROM deliveries d
	LEFT JOIN users u ON u.id = d.assigned_to`

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var d entity.Delivery
	err := row.Scan(&d.ID, &d.OrderNumber, &d.CustomerName, &d.Address, &d.DeliveryCompany,
		&d.ScheduledDate, &d.Status, &d.AssignedTo, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt, &d.AssignedName)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste una entrega.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, order_number, customer_name, address, delivery_company,
			scheduled_date, status, assigned_to, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.OrderNumber, delivery.CustomerName, delivery.Address,
		delivery.DeliveryCompany, delivery.ScheduledDate, delivery.Status,
		delivery.AssignedTo, delivery.Notes, delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(context.Background(), deliverySelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// Update actualiza estado y datos editables de una entrega.
func (r *DeliveryRepo) Update(delivery *entity.Delivery) error {
	query := `
		UPDATE deliveries SET order_number = $2, customer_name = $3, address = $4,
			delivery_company = $5, scheduled_date = $6, status = $7,
			assigned_to = NULLIF($8, ''), notes = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.OrderNumber, delivery.CustomerName, delivery.Address,
		delivery.DeliveryCompany, delivery.ScheduledDate, delivery.Status,
		delivery.AssignedTo, delivery.Notes, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista entregas con filtro opcional por estado y paginación.
func (r *DeliveryRepo) List(status string, limit, offset int) ([]*entity.Delivery, error) {
	query := deliverySelect
	args := []any{}
	if status != "" {
		query += ` WHERE d.status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY d.scheduled_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
