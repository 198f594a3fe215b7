package staff_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/staff"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User // por ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if existing, _ := r.GetByEmail(u.Email); existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeUserRepo) Count() (int64, error) { return int64(len(r.users)), nil }

type fakeInviteRepo struct {
	invites map[string]*entity.Invite // por ID
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*entity.Invite)}
}

func (r *fakeInviteRepo) Create(i *entity.Invite) error {
	c := *i
	r.invites[i.ID] = &c
	return nil
}

func (r *fakeInviteRepo) GetByToken(token string) (*entity.Invite, error) {
	for _, i := range r.invites {
		if i.Token == token {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeInviteRepo) GetPendingByEmail(email string) (*entity.Invite, error) {
	now := time.Now()
	for _, i := range r.invites {
		if i.Email == email && i.Usable(now) {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeInviteRepo) MarkAccepted(id string) error {
	i, ok := r.invites[id]
	if !ok || i.AcceptedAt != nil {
		return domain.ErrInviteExpired
	}
	now := time.Now()
	i.AcceptedAt = &now
	return nil
}

func (r *fakeInviteRepo) List(limit, offset int) ([]*entity.Invite, error) {
	var out []*entity.Invite
	for _, i := range r.invites {
		c := *i
		out = append(out, &c)
	}
	return out, nil
}

type fakeNotifRepo struct {
	notifications []*entity.Notification
}

func (r *fakeNotifRepo) Create(n *entity.Notification) error {
	c := *n
	r.notifications = append(r.notifications, &c)
	return nil
}

func (r *fakeNotifRepo) GetByID(id string) (*entity.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeNotifRepo) ListByUser(userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			c := *n
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(id string) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeNotifRepo) MarkAllRead(userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// fakeMailer registra las invitaciones enviadas.
type fakeMailer struct {
	sentTo   []string
	lastURL  string
	lastRole string
}

func (m *fakeMailer) SendInvite(_ context.Context, to, role, inviteURL string) error {
	m.sentTo = append(m.sentTo, to)
	m.lastRole = role
	m.lastURL = inviteURL
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const adminID = "admin-1"

func newStaffUseCase(t *testing.T) (*staff.StaffUseCase, *fakeUserRepo, *fakeInviteRepo, *fakeNotifRepo, *fakeMailer) {
	t.Helper()
	users := newFakeUserRepo()
	invites := newFakeInviteRepo()
	notifs := &fakeNotifRepo{}
	mailer := &fakeMailer{}
	uc := staff.NewStaffUseCase(users, invites, notifs, mailer, "http://localhost:3000", zerolog.Nop())
	return uc, users, invites, notifs, mailer
}

// inviteToken crea una invitación vía el caso de uso y devuelve el token
// capturado del email (el token nunca viaja en la respuesta HTTP).
func inviteToken(t *testing.T, uc *staff.StaffUseCase, mailer *fakeMailer, email, role string) string {
	t.Helper()
	_, err := uc.CreateInvite(context.Background(), adminID, dto.CreateInviteRequest{Email: email, Role: role})
	require.NoError(t, err)
	parts := strings.Split(mailer.lastURL, "token=")
	require.Len(t, parts, 2, "la URL del email debe llevar el token")
	return parts[1]
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateInvite
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvite_EnviaEmailYOcultaToken(t *testing.T) {
	uc, _, _, _, mailer := newStaffUseCase(t)

	out, err := uc.CreateInvite(context.Background(), adminID, dto.CreateInviteRequest{
		Email: "nuevo@negocio.com",
		Role:  entity.RoleStaff,
	})
	require.NoError(t, err)

	assert.Equal(t, "nuevo@negocio.com", out.Email)
	assert.Equal(t, entity.RoleStaff, out.Role)
	assert.WithinDuration(t, time.Now().Add(entity.InviteTTL), out.ExpiresAt, time.Minute,
		"la invitación debe vencer a las 72 horas")

	require.Len(t, mailer.sentTo, 1)
	assert.Equal(t, "nuevo@negocio.com", mailer.sentTo[0])
	assert.Contains(t, mailer.lastURL, "token=", "el email debe llevar el enlace con el token")
}

func TestCreateInvite_RolDesconocido_Validacion(t *testing.T) {
	uc, _, _, _, _ := newStaffUseCase(t)

	_, err := uc.CreateInvite(context.Background(), adminID, dto.CreateInviteRequest{
		Email: "nuevo@negocio.com",
		Role:  "superuser",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "role")
}

func TestCreateInvite_EmailYaRegistrado_Conflicto(t *testing.T) {
	uc, users, _, _, _ := newStaffUseCase(t)
	require.NoError(t, users.Create(&entity.User{ID: "u1", Email: "ya@negocio.com"}))

	_, err := uc.CreateInvite(context.Background(), adminID, dto.CreateInviteRequest{
		Email: "ya@negocio.com",
		Role:  entity.RoleStaff,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateInvite_InvitacionPendiente_Duplicado(t *testing.T) {
	uc, _, _, _, mailer := newStaffUseCase(t)
	inviteToken(t, uc, mailer, "nuevo@negocio.com", entity.RoleStaff)

	_, err := uc.CreateInvite(context.Background(), adminID, dto.CreateInviteRequest{
		Email: "nuevo@negocio.com",
		Role:  entity.RoleStaff,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// AcceptInvite
// ──────────────────────────────────────────────────────────────────────────────

func TestAcceptInvite_CreaUsuarioActivoConElRolInvitado(t *testing.T) {
	uc, users, _, notifs, mailer := newStaffUseCase(t)
	token := inviteToken(t, uc, mailer, "nuevo@negocio.com", entity.RoleStaff)

	out, err := uc.AcceptInvite(dto.AcceptInviteRequest{
		Token:    token,
		Name:     "Ana Gómez",
		Password: "contraseña-larga",
	})
	require.NoError(t, err)

	assert.Equal(t, "nuevo@negocio.com", out.Email)
	assert.Equal(t, entity.RoleStaff, out.Role)
	assert.Equal(t, entity.UserStatusActive, out.Status)

	created, err := users.GetByEmail("nuevo@negocio.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, "contraseña-larga", created.PasswordHash, "el password debe persistir hasheado")

	// El admin que invitó recibe el aviso.
	avisos, err := notifs.ListByUser(adminID, false, 20, 0)
	require.NoError(t, err)
	require.Len(t, avisos, 1)
	assert.Equal(t, entity.NotificationInviteAccepted, avisos[0].Kind)
}

func TestAcceptInvite_TokenDesconocido_NotFound(t *testing.T) {
	uc, _, _, _, _ := newStaffUseCase(t)

	_, err := uc.AcceptInvite(dto.AcceptInviteRequest{
		Token:    "no-existe",
		Name:     "Ana",
		Password: "contraseña-larga",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptInvite_TokenDeUnSoloUso(t *testing.T) {
	uc, _, _, _, mailer := newStaffUseCase(t)
	token := inviteToken(t, uc, mailer, "nuevo@negocio.com", entity.RoleStaff)

	_, err := uc.AcceptInvite(dto.AcceptInviteRequest{Token: token, Name: "Ana", Password: "contraseña-larga"})
	require.NoError(t, err)

	_, err = uc.AcceptInvite(dto.AcceptInviteRequest{Token: token, Name: "Otro", Password: "contraseña-larga"})
	assert.ErrorIs(t, err, domain.ErrInviteExpired, "el segundo uso del token debe rechazarse")
}

func TestAcceptInvite_InvitacionVencida(t *testing.T) {
	uc, _, invites, _, mailer := newStaffUseCase(t)
	token := inviteToken(t, uc, mailer, "nuevo@negocio.com", entity.RoleStaff)

	// Vencer la invitación a mano.
	for _, i := range invites.invites {
		i.ExpiresAt = time.Now().Add(-time.Hour)
	}

	_, err := uc.AcceptInvite(dto.AcceptInviteRequest{Token: token, Name: "Ana", Password: "contraseña-larga"})
	assert.ErrorIs(t, err, domain.ErrInviteExpired)
}

func TestAcceptInvite_PasswordCorto_Validacion(t *testing.T) {
	uc, _, _, _, mailer := newStaffUseCase(t)
	token := inviteToken(t, uc, mailer, "nuevo@negocio.com", entity.RoleStaff)

	_, err := uc.AcceptInvite(dto.AcceptInviteRequest{Token: token, Name: "Ana", Password: "corto"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStaff
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStaff_CambiaRolYEstado(t *testing.T) {
	uc, users, _, _, _ := newStaffUseCase(t)
	require.NoError(t, users.Create(&entity.User{
		ID: "u1", Email: "staff@negocio.com", Name: "Ana",
		Role: entity.RoleStaff, Status: entity.UserStatusActive,
	}))

	role := entity.RoleAdmin
	status := entity.UserStatusInactive
	out, err := uc.UpdateStaff(adminID, "u1", dto.UpdateStaffRequest{Role: &role, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Equal(t, entity.UserStatusInactive, out.Status)
}

func TestUpdateStaff_AdminNoPuedeDegradarseASiMismo(t *testing.T) {
	uc, users, _, _, _ := newStaffUseCase(t)
	require.NoError(t, users.Create(&entity.User{
		ID: adminID, Email: "admin@negocio.com", Name: "Admin",
		Role: entity.RoleAdmin, Status: entity.UserStatusActive,
	}))

	role := entity.RoleStaff
	_, err := uc.UpdateStaff(adminID, adminID, dto.UpdateStaffRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrConflict)

	status := entity.UserStatusInactive
	_, err = uc.UpdateStaff(adminID, adminID, dto.UpdateStaffRequest{Status: &status})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStaff_UsuarioInexistente(t *testing.T) {
	uc, _, _, _, _ := newStaffUseCase(t)

	name := "Nadie"
	_, err := uc.UpdateStaff(adminID, "no-existe", dto.UpdateStaffRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
