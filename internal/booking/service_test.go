package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gearshare/item-lending-backend/internal/auth"
	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
	"github.com/gearshare/item-lending-backend/internal/user"
)

type fakeCatalog struct {
	items map[string]*ItemRef
}

func (f *fakeCatalog) GetItem(ctx context.Context, id string) (*ItemRef, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, apperror.New(http.StatusNotFound, "Item not found")
	}
	return i, nil
}

func (f *fakeCatalog) OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	for _, i := range f.items {
		if i.OwnerID == ownerID {
			ids = append(ids, i.ID)
		}
	}
	return ids, nil
}

type testEnv struct {
	repo    Repository
	users   user.Service
	catalog *fakeCatalog
	svc     Service

	owner  *user.User
	booker *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	users := user.NewService(user.NewMemoryRepository(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))

	owner, err := users.Register(ctx, "owner@example.com", "password123", "Owner")
	require.NoError(t, err)
	booker, err := users.Register(ctx, "booker@example.com", "password123", "Booker")
	require.NoError(t, err)

	repo := NewMemoryRepository()
	catalog := &fakeCatalog{items: map[string]*ItemRef{
		"item-1": {ID: "item-1", OwnerID: owner.ID, Available: true},
	}}

	return &testEnv{
		repo:    repo,
		users:   users,
		catalog: catalog,
		svc:     NewService(repo, users, catalog),
		owner:   owner,
		booker:  booker,
	}
}

func requireAppErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)
	end := start.Add(48 * time.Hour)

	b, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID,
		ItemID:   "item-1",
		Start:    start,
		End:      end,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, env.booker.ID, b.BookerID)
}

func TestCreateBookingInvalidDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)

	// end before start
	_, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID,
		ItemID:   "item-1",
		Start:    start,
		End:      start.Add(-time.Hour),
	})
	requireAppErrorCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "Invalid booking date")

	// zero-length window is invalid too
	_, err = env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID,
		ItemID:   "item-1",
		Start:    start,
		End:      start,
	})
	requireAppErrorCode(t, err, http.StatusBadRequest)
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.catalog.items["item-2"] = &ItemRef{ID: "item-2", OwnerID: env.owner.ID, Available: false}

	start := time.Now().Add(time.Hour)
	_, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID,
		ItemID:   "item-2",
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateBookingOwnItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	_, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.owner.ID,
		ItemID:   "item-1",
		Start:    start,
		End:      start.Add(time.Hour),
	})

	// Reported as not-found so ownership is not revealed
	assert.ErrorIs(t, err, ErrOwnItem)
	requireAppErrorCode(t, err, http.StatusNotFound)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	_, err := env.svc.Create(ctx, CreateRequest{
		BookerID: "00000000-0000-0000-0000-000000000000",
		ItemID:   "item-1",
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestCreateBookingAllowsOverlaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	req := CreateRequest{BookerID: env.booker.ID, ItemID: "item-1", Start: start, End: end}

	_, err := env.svc.Create(ctx, req)
	require.NoError(t, err)

	// A second booking over the same window is accepted; the owner resolves
	// conflicts at approval time.
	_, err = env.svc.Create(ctx, req)
	require.NoError(t, err)
}

func TestApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	b, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID, ItemID: "item-1", Start: start, End: start.Add(time.Hour),
	})
	require.NoError(t, err)

	approved, err := env.svc.Approve(ctx, env.owner.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// Repeating the same transition fails
	_, err = env.svc.Approve(ctx, env.owner.ID, b.ID, true)
	requireAppErrorCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "already APPROVED")

	// Flipping to the opposite status is allowed
	rejected, err := env.svc.Approve(ctx, env.owner.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	// And back again
	approved, err = env.svc.Approve(ctx, env.owner.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
}

func TestApproveByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	b, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID, ItemID: "item-1", Start: start, End: start.Add(time.Hour),
	})
	require.NoError(t, err)

	// The booker is not the owner; the booking stays hidden
	_, err = env.svc.Approve(ctx, env.booker.ID, b.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stranger, err := env.users.Register(ctx, "stranger@example.com", "password123", "Stranger")
	require.NoError(t, err)

	start := time.Now().Add(time.Hour)
	b, err := env.svc.Create(ctx, CreateRequest{
		BookerID: env.booker.ID, ItemID: "item-1", Start: start, End: start.Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, env.booker.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = env.svc.GetByID(ctx, env.owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = env.svc.GetByID(ctx, stranger.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// seedBooking inserts a booking with a fixed status directly into the store.
func seedBooking(t *testing.T, repo Repository, bookerID, itemID string, start, end time.Time, status Status) *Booking {
	t.Helper()
	b := &Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestListForBookerStates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	past := seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(-96*time.Hour), now.Add(-72*time.Hour), StatusApproved)
	current := seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(-24*time.Hour), now.Add(24*time.Hour), StatusApproved)
	future := seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(48*time.Hour), now.Add(72*time.Hour), StatusWaiting)
	rejected := seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(96*time.Hour), now.Add(120*time.Hour), StatusRejected)

	cases := []struct {
		state State
		want  []string
	}{
		{StateAll, []string{rejected.ID, future.ID, current.ID, past.ID}},
		{StateCurrent, []string{current.ID}},
		{StatePast, []string{past.ID}},
		{StateFuture, []string{rejected.ID, future.ID}},
		{StateWaiting, []string{future.ID}},
		{StateRejected, []string{rejected.ID}},
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			bookings, err := env.svc.ListForBooker(ctx, env.booker.ID, tc.state, 0, 10)
			require.NoError(t, err)

			ids := make([]string, len(bookings))
			for i, b := range bookings {
				ids[i] = b.ID
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestListForBookerWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 12; i++ {
		start := now.Add(time.Duration(i+1) * time.Hour)
		seedBooking(t, env.repo, env.booker.ID, "item-1", start, start.Add(30*time.Minute), StatusWaiting)
	}

	// from collapses to the page of the preceding multiple of size
	pageA, err := env.svc.ListForBooker(ctx, env.booker.ID, StateAll, 5, 10)
	require.NoError(t, err)
	pageB, err := env.svc.ListForBooker(ctx, env.booker.ID, StateAll, 9, 10)
	require.NoError(t, err)

	require.Len(t, pageA, 10)
	assert.Equal(t, pageA, pageB)

	second, err := env.svc.ListForBooker(ctx, env.booker.ID, StateAll, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestListForOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(time.Hour), now.Add(2*time.Hour), StatusWaiting)

	bookings, err := env.svc.ListForOwner(ctx, env.owner.ID, StateAll, 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestListForOwnerWithoutItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bookings, err := env.svc.ListForOwner(ctx, env.booker.ID, StateAll, 0, 10)
	require.NoError(t, err)

	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestUpdateStatusConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	b := seedBooking(t, env.repo, env.booker.ID, "item-1", now.Add(time.Hour), now.Add(2*time.Hour), StatusWaiting)

	_, err := env.repo.UpdateStatus(ctx, b.ID, StatusWaiting, StatusApproved)
	require.NoError(t, err)

	// Second writer still expects WAITING; the compare-and-set must refuse
	_, err = env.repo.UpdateStatus(ctx, b.ID, StatusWaiting, StatusRejected)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestParseState(t *testing.T) {
	state, err := ParseState("")
	require.NoError(t, err)
	assert.Equal(t, StateAll, state)

	state, err = ParseState("CURRENT")
	require.NoError(t, err)
	assert.Equal(t, StateCurrent, state)

	_, err = ParseState("bogus")
	requireAppErrorCode(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "Unknown state: bogus")
}
