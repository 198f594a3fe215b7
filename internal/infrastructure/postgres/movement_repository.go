package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las lecturas enriquecen con nombre de producto y de usuario (joins de lectura).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, m.type, m.quantity, m.product_id, m.user_id,
	       m.arrival_date, m.delivery_date, m.delivery_company,
	       m.pickup_by, m.pickup_date, m.order_number, m.sku, m.notes,
	       m.created_at, m.updated_at,
	       p.name AS product_name, COALESCE(u.name, '') AS user_name
	FROM movements m
	JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.user_id`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.Type, &m.Quantity, &m.ProductID, &m.UserID,
		&m.ArrivalDate, &m.DeliveryDate, &m.DeliveryCompany,
		&m.PickupBy, &m.PickupDate, &m.OrderNumber, &m.SKU, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
		&m.ProductName, &m.UserName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, quantity, product_id, user_id,
			arrival_date, delivery_date, delivery_company,
			pickup_by, pickup_date, order_number, sku, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Quantity, movement.ProductID, movement.UserID,
		movement.ArrivalDate, movement.DeliveryDate, movement.DeliveryCompany,
		movement.PickupBy, movement.PickupDate, movement.OrderNumber, movement.SKU, movement.Notes,
		movement.CreatedAt, movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID con joins de lectura.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(context.Background(), movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update reemplaza los campos editables del movimiento.
func (r *MovementRepo) Update(movement *entity.Movement) error {
	query := `
		UPDATE movements SET type = $2, quantity = $3, product_id = $4,
			arrival_date = $5, delivery_date = $6, delivery_company = $7,
			pickup_by = $8, pickup_date = $9, order_number = $10, sku = $11, notes = $12,
			updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Quantity, movement.ProductID,
		movement.ArrivalDate, movement.DeliveryDate, movement.DeliveryCompany,
		movement.PickupBy, movement.PickupDate, movement.OrderNumber, movement.SKU, movement.Notes,
		movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update movement: sin filas afectadas")
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// List lista movimientos con filtros opcionales por producto, tipo y rango de fechas.
func (r *MovementRepo) List(productID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if productID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if movementType != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, movementType)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByProduct cuenta los movimientos vigentes de un producto.
func (r *MovementRepo) CountByProduct(productID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
