package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/notification"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

type fakeNotifRepo struct {
	notifications map[string]*entity.Notification
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{notifications: make(map[string]*entity.Notification)}
}

func (r *fakeNotifRepo) Create(n *entity.Notification) error {
	c := *n
	r.notifications[n.ID] = &c
	return nil
}

func (r *fakeNotifRepo) GetByID(id string) (*entity.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	c := *n
	return &c, nil
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
	n, ok := r.notifications[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (r *fakeNotifRepo) MarkAllRead(userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func seed(repo *fakeNotifRepo, id, userID string, read bool) {
	repo.notifications[id] = &entity.Notification{
		ID: id, UserID: userID, Kind: entity.NotificationDeliveryStatus,
		Message: "mensaje", Read: read, CreatedAt: time.Now(),
	}
}

func TestListByUser_SoloNoLeidas(t *testing.T) {
	repo := newFakeNotifRepo()
	seed(repo, "n1", "u1", false)
	seed(repo, "n2", "u1", true)
	seed(repo, "n3", "u2", false)
	uc := notification.NewNotificationUseCase(repo)

	out, err := uc.ListByUser("u1", true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "n1", out[0].ID)
}

func TestMarkRead_SoloElDestinatario(t *testing.T) {
	repo := newFakeNotifRepo()
	seed(repo, "n1", "u1", false)
	uc := notification.NewNotificationUseCase(repo)

	// Otro usuario no puede marcarla; para él no existe.
	err := uc.MarkRead("u2", "n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.MarkRead("u1", "n1"))
	assert.True(t, repo.notifications["n1"].Read)
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotifRepo()
	seed(repo, "n1", "u1", false)
	seed(repo, "n2", "u1", false)
	seed(repo, "n3", "u2", false)
	uc := notification.NewNotificationUseCase(repo)

	require.NoError(t, uc.MarkAllRead("u1"))

	assert.True(t, repo.notifications["n1"].Read)
	assert.True(t, repo.notifications["n2"].Read)
	assert.False(t, repo.notifications["n3"].Read, "las de otros usuarios no se tocan")
}
