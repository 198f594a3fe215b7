package staff

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StaffUseCase administración de personal: invitaciones por email,
// alta vía token de un solo uso y edición de miembros.
type StaffUseCase struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	notifRepo  repository.NotificationRepository
	mailer     Mailer
	baseURL    string
	log        zerolog.Logger
}

// NewStaffUseCase construye el caso de uso de personal.
func NewStaffUseCase(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	notifRepo repository.NotificationRepository,
	mailer Mailer,
	baseURL string,
	log zerolog.Logger,
) *StaffUseCase {
	return &StaffUseCase{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		notifRepo:  notifRepo,
		mailer:     mailer,
		baseURL:    baseURL,
		log:        log,
	}
}

// CreateInvite crea una invitación (solo admin, lo impone el middleware) y
// envía el email con el enlace de alta. El token nunca viaja en la respuesta.
func (uc *StaffUseCase) CreateInvite(ctx context.Context, createdBy string, in dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if !entity.ValidRole(in.Role) {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	pending, err := uc.inviteRepo.GetPendingByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrDuplicate
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	invite := &entity.Invite{
		ID:        uuid.New().String(),
		Email:     in.Email,
		Role:      in.Role,
		Token:     token,
		ExpiresAt: now.Add(entity.InviteTTL),
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	if err := uc.inviteRepo.Create(invite); err != nil {
		return nil, err
	}

	inviteURL := fmt.Sprintf("%s/invites/accept?token=%s", uc.baseURL, token)
	if err := uc.mailer.SendInvite(ctx, invite.Email, invite.Role, inviteURL); err != nil {
		// La invitación ya existe; el admin puede reenviar el enlace.
		uc.log.Warn().Err(err).Str("email", invite.Email).Msg("no se pudo enviar el email de invitación")
	}
	uc.log.Info().Str("email", invite.Email).Str("role", invite.Role).Msg("invitación creada")
	return toInviteResponse(invite), nil
}

// AcceptInvite consume un token de invitación y da de alta al usuario.
// Token desconocido → ErrNotFound; expirado o ya usado → ErrInviteExpired.
func (uc *StaffUseCase) AcceptInvite(in dto.AcceptInviteRequest) (*dto.UserResponse, error) {
	var missing []string
	if in.Token == "" {
		missing = append(missing, "token")
	}
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if len(in.Password) < 8 {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	invite, err := uc.inviteRepo.GetByToken(in.Token)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrNotFound
	}
	if !invite.Usable(time.Now()) {
		return nil, domain.ErrInviteExpired
	}
	existing, err := uc.userRepo.GetByEmail(invite.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	// MarkAccepted primero: solo afecta filas con accepted_at IS NULL, así
	// dos aceptaciones concurrentes del mismo token no crean dos usuarios.
	if err := uc.inviteRepo.MarkAccepted(invite.ID); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        invite.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         invite.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	uc.notify(invite.CreatedBy, entity.NotificationInviteAccepted,
		fmt.Sprintf("%s aceptó la invitación y se unió como %s", user.Name, user.Role))
	uc.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("invitación aceptada")
	return auth.ToUserResponse(user), nil
}

// ListInvites lista invitaciones con paginación.
func (uc *StaffUseCase) ListInvites(page dto.PageRequest) ([]dto.InviteResponse, error) {
	page.DefaultPage()
	invites, err := uc.inviteRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InviteResponse, 0, len(invites))
	for _, i := range invites {
		items = append(items, *toInviteResponse(i))
	}
	return items, nil
}

// ListStaff lista los miembros del personal.
func (uc *StaffUseCase) ListStaff(page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.userRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *auth.ToUserResponse(u))
	}
	return items, nil
}

// UpdateStaff edita nombre, rol o estado de un miembro. Un admin no puede
// degradarse ni desactivarse a sí mismo (evita quedarse sin administradores).
func (uc *StaffUseCase) UpdateStaff(actorID, id string, in dto.UpdateStaffRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.NewValidationError("name")
		}
		user.Name = *in.Name
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.NewValidationError("role")
		}
		if actorID == id && *in.Role != entity.RoleAdmin && user.Role == entity.RoleAdmin {
			return nil, domain.ErrConflict
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, domain.NewValidationError("status")
		}
		if actorID == id && *in.Status == entity.UserStatusInactive {
			return nil, domain.ErrConflict
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// notify registra la notificación sin propagar el error: un aviso fallido
// no debe tumbar la operación principal.
func (uc *StaffUseCase) notify(userID, kind, message string) {
	if userID == "" {
		return
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := uc.notifRepo.Create(n); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo registrar la notificación")
	}
}

// newInviteToken genera un token aleatorio de 32 bytes en hex.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toInviteResponse(i *entity.Invite) *dto.InviteResponse {
	if i == nil {
		return nil
	}
	return &dto.InviteResponse{
		ID:         i.ID,
		Email:      i.Email,
		Role:       i.Role,
		ExpiresAt:  i.ExpiresAt,
		AcceptedAt: i.AcceptedAt,
		CreatedAt:  i.CreatedAt,
	}
}
