package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gearshare/item-lending-backend/internal/auth"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(NewMemoryRepository(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice@Example.COM ", "password123", "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Alice", *u.Name)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ALICE@example.com", "password456", "Other Alice")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "alice@example.com", "short", "Alice")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// Last login is recorded best-effort
	u, err = svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "nope-nope-nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteDeactivatesAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))

	// A deactivated account is reported as missing
	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// And can no longer log in
	_, err = svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	name := "Alice B."
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)

	require.NotNil(t, updated.Name)
	assert.Equal(t, "Alice B.", *updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestDisplayName(t *testing.T) {
	name := "Alice"
	u := &User{Email: "alice@example.com", Name: &name}
	assert.Equal(t, "Alice", u.DisplayName())

	u.Name = nil
	assert.Equal(t, "alice@example.com", u.DisplayName())
}
