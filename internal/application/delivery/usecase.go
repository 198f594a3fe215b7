package delivery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// DeliveryUseCase agenda de entregas: programación, workflow de estados y
// guía de entrega en PDF. Los cambios de estado notifican al responsable.
type DeliveryUseCase struct {
	repo      repository.DeliveryRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	pdf       NotePDFGenerator
	log       zerolog.Logger
}

// NewDeliveryUseCase construye el caso de uso de entregas.
func NewDeliveryUseCase(
	repo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	pdf NotePDFGenerator,
	log zerolog.Logger,
) *DeliveryUseCase {
	return &DeliveryUseCase{repo: repo, userRepo: userRepo, notifRepo: notifRepo, pdf: pdf, log: log}
}

// Create programa una entrega. Nace en estado scheduled.
func (uc *DeliveryUseCase) Create(in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	var missing []string
	if in.OrderNumber == "" {
		missing = append(missing, "order_number")
	}
	if in.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if in.Address == "" {
		missing = append(missing, "address")
	}
	if in.ScheduledDate.IsZero() {
		missing = append(missing, "scheduled_date")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	assignedName := ""
	if in.AssignedTo != "" {
		user, err := uc.userRepo.GetByID(in.AssignedTo)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
		assignedName = user.Name
	}
	now := time.Now()
	d := &entity.Delivery{
		ID:              uuid.New().String(),
		OrderNumber:     in.OrderNumber,
		CustomerName:    in.CustomerName,
		Address:         in.Address,
		DeliveryCompany: in.DeliveryCompany,
		ScheduledDate:   in.ScheduledDate,
		Status:          entity.DeliveryStatusScheduled,
		AssignedTo:      in.AssignedTo,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
		AssignedName:    assignedName,
	}
	if err := uc.repo.Create(d); err != nil {
		return nil, err
	}
	uc.log.Info().Str("delivery_id", d.ID).Str("order", d.OrderNumber).Msg("entrega programada")
	return toDeliveryResponse(d), nil
}

// GetByID obtiene una entrega. Devuelve ErrNotFound si no existe.
func (uc *DeliveryUseCase) GetByID(id string) (*dto.DeliveryResponse, error) {
	d, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toDeliveryResponse(d), nil
}

// UpdateStatus avanza el workflow. Transiciones fuera del diagrama (incluida
// cualquier salida de delivered o cancelled) devuelven ErrConflict.
func (uc *DeliveryUseCase) UpdateStatus(id string, in dto.UpdateDeliveryStatusRequest) (*dto.DeliveryResponse, error) {
	if !entity.ValidDeliveryStatus(in.Status) {
		return nil, domain.NewValidationError("status")
	}
	d, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(d.Status, in.Status) {
		return nil, domain.ErrConflict
	}
	previous := d.Status
	d.Status = in.Status
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(d); err != nil {
		return nil, err
	}
	metrics.DeliveryTransitions.WithLabelValues(d.Status).Inc()
	uc.notifyAssigned(d, previous)
	uc.log.Info().
		Str("delivery_id", d.ID).
		Str("from", previous).
		Str("to", d.Status).
		Msg("entrega actualizada")
	return toDeliveryResponse(d), nil
}

// List lista entregas con filtro opcional por estado.
func (uc *DeliveryUseCase) List(status string, page dto.PageRequest) (*dto.DeliveryListResponse, error) {
	if status != "" && !entity.ValidDeliveryStatus(status) {
		return nil, domain.NewValidationError("status")
	}
	page.DefaultPage()
	deliveries, err := uc.repo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		items = append(items, *toDeliveryResponse(d))
	}
	return &dto.DeliveryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// DownloadNote genera la guía de entrega en PDF.
// Retorna (pdfBytes, filename, nil) o ErrNotFound si la entrega no existe.
func (uc *DeliveryUseCase) DownloadNote(id string) ([]byte, string, error) {
	d, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if d == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err := uc.pdf.GenerateNote(d)
	if err != nil {
		return nil, "", fmt.Errorf("generar guía de entrega: %w", err)
	}
	filename := fmt.Sprintf("guia-%s.pdf", d.OrderNumber)
	return pdfBytes, filename, nil
}

// notifyAssigned avisa al responsable del cambio de estado. Un aviso fallido
// no tumba la transición.
func (uc *DeliveryUseCase) notifyAssigned(d *entity.Delivery, previous string) {
	if d.AssignedTo == "" {
		return
	}
	n := &entity.Notification{
		ID:     uuid.New().String(),
		UserID: d.AssignedTo,
		Kind:   entity.NotificationDeliveryStatus,
		Message: fmt.Sprintf("La entrega %s pasó de %s a %s",
			d.OrderNumber, previous, d.Status),
		CreatedAt: time.Now(),
	}
	if err := uc.notifRepo.Create(n); err != nil {
		uc.log.Warn().Err(err).Str("delivery_id", d.ID).Msg("no se pudo registrar la notificación")
	}
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	return &dto.DeliveryResponse{
		ID:              d.ID,
		OrderNumber:     d.OrderNumber,
		CustomerName:    d.CustomerName,
		Address:         d.Address,
		DeliveryCompany: d.DeliveryCompany,
		ScheduledDate:   d.ScheduledDate,
		Status:          d.Status,
		AssignedTo:      d.AssignedTo,
		AssignedName:    d.AssignedName,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
