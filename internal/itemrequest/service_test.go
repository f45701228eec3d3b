package itemrequest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gearshare/item-lending-backend/internal/auth"
	"github.com/gearshare/item-lending-backend/internal/item"
	"github.com/gearshare/item-lending-backend/internal/user"
)

type testEnv struct {
	users user.Service
	items item.Repository
	svc   Service

	requestor *user.User
	other     *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	users := user.NewService(user.NewMemoryRepository(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))

	requestor, err := users.Register(ctx, "requestor@example.com", "password123", "Requestor")
	require.NoError(t, err)
	other, err := users.Register(ctx, "other@example.com", "password123", "Other")
	require.NoError(t, err)

	items := item.NewMemoryRepository()

	return &testEnv{
		users:     users,
		items:     items,
		svc:       NewService(NewMemoryRepository(), users, items),
		requestor: requestor,
		other:     other,
	}
}

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.svc.Create(ctx, env.requestor.ID, "need a ladder")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, env.requestor.ID, req.RequestorID)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestCreateRequestUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), "00000000-0000-0000-0000-000000000000", "need a ladder")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestGetByIDWithAnsweringItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.svc.Create(ctx, env.requestor.ID, "need a ladder")
	require.NoError(t, err)

	answer := &item.Item{
		OwnerID:     env.other.ID,
		Name:        "Ladder",
		Description: "3m aluminium",
		Available:   true,
		RequestID:   &req.ID,
	}
	require.NoError(t, env.items.Create(ctx, answer))

	info, err := env.svc.GetByID(ctx, env.other.ID, req.ID)
	require.NoError(t, err)

	require.Len(t, info.Items, 1)
	assert.Equal(t, answer.ID, info.Items[0].ID)
}

func TestGetByIDUnknownRequest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetByID(context.Background(), env.requestor.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOwn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, env.requestor.ID, "need a ladder")
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, env.requestor.ID, "need a drill")
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.other.ID, "need a tent")
	require.NoError(t, err)

	infos, err := env.svc.ListOwn(ctx, env.requestor.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Newest first
	assert.Equal(t, second.ID, infos[0].ID)
	assert.Equal(t, first.ID, infos[1].ID)
}

func TestListOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.requestor.ID, "need a ladder")
	require.NoError(t, err)

	theirs, err := env.svc.Create(ctx, env.other.ID, "need a tent")
	require.NoError(t, err)

	infos, err := env.svc.ListOthers(ctx, env.requestor.ID, 0, 10)
	require.NoError(t, err)

	require.Len(t, infos, 1)
	assert.Equal(t, theirs.ID, infos[0].ID)
}

func TestListOthersWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := env.svc.Create(ctx, env.other.ID, "request")
		require.NoError(t, err)
	}

	// from collapses to the page of the preceding multiple of size
	pageA, err := env.svc.ListOthers(ctx, env.requestor.ID, 5, 10)
	require.NoError(t, err)
	pageB, err := env.svc.ListOthers(ctx, env.requestor.ID, 9, 10)
	require.NoError(t, err)

	require.Len(t, pageA, 10)
	assert.Equal(t, len(pageA), len(pageB))

	second, err := env.svc.ListOthers(ctx, env.requestor.ID, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
