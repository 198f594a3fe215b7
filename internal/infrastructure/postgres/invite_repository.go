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

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo implementación del puerto InviteRepository sobre PostgreSQL.
type InviteRepo struct {
	q Querier
}

// NewInviteRepository construye el adaptador de persistencia para invitaciones.
func NewInviteRepository(q Querier) *InviteRepo {
	return &InviteRepo{q: q}
}

const inviteSelect = `
	SELECT id, email, role, token, expires_at, accepted_at, created_by, created_at
	FROM invites`

func scanInvite(row pgx.Row) (*entity.Invite, error) {
	var i entity.Invite
	err := row.Scan(&i.ID, &i.Email, &i.Role, &i.Token, &i.ExpiresAt, &i.AcceptedAt,
		&i.CreatedBy, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create persiste una invitación.
func (r *InviteRepo) Create(invite *entity.Invite) error {
	query := `
		INSERT INTO invites (id, email, role, token, expires_at, accepted_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		invite.ID, invite.Email, invite.Role, invite.Token, invite.ExpiresAt,
		invite.AcceptedAt, invite.CreatedBy, invite.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// GetByToken obtiene una invitación por su token de un solo uso.
func (r *InviteRepo) GetByToken(token string) (*entity.Invite, error) {
	i, err := scanInvite(r.q.QueryRow(context.Background(), inviteSelect+` WHERE token = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite by token: %w", err)
	}
	return i, nil
}

// GetPendingByEmail obtiene la invitación pendiente (no aceptada, no vencida) de un email.
func (r *InviteRepo) GetPendingByEmail(email string) (*entity.Invite, error) {
	i, err := scanInvite(r.q.QueryRow(context.Background(),
		inviteSelect+` WHERE email = $1 AND accepted_at IS NULL AND expires_at > now()`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending invite: %w", err)
	}
	return i, nil
}

// MarkAccepted fija accepted_at; el token queda consumido.
func (r *InviteRepo) MarkAccepted(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE invites SET accepted_at = now() WHERE id = $1 AND accepted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("mark invite accepted: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInviteExpired
	}
	return nil
}

// List lista invitaciones con paginación.
func (r *InviteRepo) List(limit, offset int) ([]*entity.Invite, error) {
	rows, err := r.q.Query(context.Background(),
		inviteSelect+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invite
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}
