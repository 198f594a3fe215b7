package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// LedgerUseCase mantiene el invariante entre product.Stock y el conjunto de
// movimientos que lo referencian, a través de crear/editar/eliminar movimiento.
// Cada operación corre en una transacción: el ajuste de stock es una sola
// sentencia server-side (stock = stock + delta), de modo que dos peticiones
// concurrentes sobre el mismo producto nunca pierden un delta ni dejan el
// contador en negativo.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	events   EventPublisher
	log      zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso. movRepo se usa solo para lecturas
// fuera de transacción (listados, detalle); las escrituras van por txRunner.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.MovementRepository, events EventPublisher, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo, events: events, log: log}
}

// validateMovement valida los campos requeridos según el tipo declarado y
// devuelve un ValidationError con todos los campos faltantes.
func validateMovement(in dto.MovementRequest) error {
	var missing []string
	if in.ProductID == "" {
		missing = append(missing, "product_id")
	}
	if in.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	switch in.Type {
	case entity.MovementTypeArrival:
		if in.ArrivalDate == nil {
			missing = append(missing, "arrival_date")
		}
	case entity.MovementTypeDelivery:
		if in.DeliveryDate == nil {
			missing = append(missing, "delivery_date")
		}
		if in.DeliveryCompany == "" {
			missing = append(missing, "delivery_company")
		}
		if in.OrderNumber == "" {
			missing = append(missing, "order_number")
		}
	case entity.MovementTypePickup:
		if in.PickupBy == "" {
			missing = append(missing, "pickup_by")
		}
		if in.PickupDate == nil {
			missing = append(missing, "pickup_date")
		}
		if in.OrderNumber == "" {
			missing = append(missing, "order_number")
		}
		if in.SKU == "" {
			missing = append(missing, "sku")
		}
	default:
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return domain.NewValidationError(missing...)
	}
	return nil
}

// movementFromRequest arma la entidad desde el request validado.
func movementFromRequest(id, userID string, in dto.MovementRequest, now time.Time) *entity.Movement {
	return &entity.Movement{
		ID:              id,
		Type:            in.Type,
		Quantity:        in.Quantity,
		ProductID:       in.ProductID,
		UserID:          userID,
		ArrivalDate:     in.ArrivalDate,
		DeliveryDate:    in.DeliveryDate,
		DeliveryCompany: in.DeliveryCompany,
		PickupBy:        in.PickupBy,
		PickupDate:      in.PickupDate,
		OrderNumber:     in.OrderNumber,
		SKU:             in.SKU,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CreateMovement valida, aplica el delta derivado del tipo y persiste el
// movimiento en la misma transacción. Si el ajuste falla (producto inexistente
// o stock insuficiente) no se inserta nada.
func (uc *LedgerUseCase) CreateMovement(ctx context.Context, userID string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	delta, err := ledger.DeltaOf(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mov := movementFromRequest(uuid.New().String(), userID, in, now)

	var stockAfter int64
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		after, err := productRepo.AdjustStock(in.ProductID, delta)
		if err != nil {
			return err
		}
		stockAfter = after
		return movRepo.Create(mov)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		return nil, err
	}

	metrics.MovementsRegistered.WithLabelValues(in.Type).Inc()
	uc.publish(ctx, "created", mov, stockAfter)
	return uc.enrichedResponse(mov.ID, stockAfter)
}

// UpdateMovement reemplaza un movimiento existente manteniendo el invariante.
// Sobre el mismo producto aplica el delta neto (nuevo − viejo) en un único
// ajuste atómico; si el producto cambia, revierte en el viejo y aplica en el
// nuevo, todo dentro de la misma transacción.
func (uc *LedgerUseCase) UpdateMovement(ctx context.Context, id string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	newDelta, err := ledger.DeltaOf(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	var (
		stockAfter int64
		updated    *entity.Movement
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		existing, err := movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		oldDelta, err := ledger.DeltaOf(existing.Type, existing.Quantity)
		if err != nil {
			return err
		}

		if in.ProductID == existing.ProductID {
			after, err := productRepo.AdjustStock(in.ProductID, newDelta-oldDelta)
			if err != nil {
				return err
			}
			stockAfter = after
		} else {
			// El movimiento cambió de producto: reverso en el viejo, delta en el nuevo.
			if _, err := productRepo.AdjustStock(existing.ProductID, ledger.Reversal(oldDelta)); err != nil {
				return err
			}
			after, err := productRepo.AdjustStock(in.ProductID, newDelta)
			if err != nil {
				return err
			}
			stockAfter = after
		}

		updated = movementFromRequest(existing.ID, existing.UserID, in, time.Now())
		updated.CreatedAt = existing.CreatedAt
		return movRepo.Update(updated)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		return nil, err
	}

	uc.publish(ctx, "updated", updated, stockAfter)
	return uc.enrichedResponse(updated.ID, stockAfter)
}

// DeleteMovement revierte la contribución del movimiento y lo elimina, en la
// misma transacción. Tras borrar, el stock queda como si el movimiento nunca
// hubiera existido.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, id string) error {
	var (
		deleted    *entity.Movement
		stockAfter int64
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		existing, err := movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		oldDelta, err := ledger.DeltaOf(existing.Type, existing.Quantity)
		if err != nil {
			return err
		}
		after, err := productRepo.AdjustStock(existing.ProductID, ledger.Reversal(oldDelta))
		if err != nil {
			return err
		}
		stockAfter = after
		deleted = existing
		return movRepo.Delete(id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		return err
	}

	uc.publish(ctx, "deleted", deleted, stockAfter)
	return nil
}

// GetMovement detalle de un movimiento con joins de lectura.
func (uc *LedgerUseCase) GetMovement(id string) (*dto.MovementResponse, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	out := toMovementResponse(mov, -1)
	return out, nil
}

// ListMovements listado con filtros por producto, tipo y rango de fechas.
func (uc *LedgerUseCase) ListMovements(productID, movementType string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.List(productID, movementType, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m, -1))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// publish emite el evento después del Commit; si el bus falla solo se loguea.
func (uc *LedgerUseCase) publish(ctx context.Context, action string, mov *entity.Movement, stockAfter int64) {
	ev := MovementEvent{
		Action:     action,
		MovementID: mov.ID,
		ProductID:  mov.ProductID,
		Type:       mov.Type,
		Quantity:   mov.Quantity,
		StockAfter: stockAfter,
		At:         time.Now(),
	}
	if err := uc.events.PublishMovementEvent(ctx, ev); err != nil {
		uc.log.Error().Err(err).
			Str("movement_id", mov.ID).
			Str("action", action).
			Msg("publicar evento de movimiento")
	}
}

// enrichedResponse relee el movimiento con sus joins (nombre de producto y de
// usuario) para la respuesta de create/update.
func (uc *LedgerUseCase) enrichedResponse(id string, stockAfter int64) (*dto.MovementResponse, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(mov, stockAfter), nil
}

// toMovementResponse mapea la entidad a DTO. stockAfter < 0 significa "no
// aplica" (listados y detalle no recalculan el contador).
func toMovementResponse(m *entity.Movement, stockAfter int64) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:              m.ID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		ProductID:       m.ProductID,
		UserID:          m.UserID,
		ArrivalDate:     m.ArrivalDate,
		DeliveryDate:    m.DeliveryDate,
		DeliveryCompany: m.DeliveryCompany,
		PickupBy:        m.PickupBy,
		PickupDate:      m.PickupDate,
		OrderNumber:     m.OrderNumber,
		SKU:             m.SKU,
		Notes:           m.Notes,
		ProductName:     m.ProductName,
		UserName:        m.UserName,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if stockAfter >= 0 {
		out.Stock = stockAfter
	}
	return out
}
