package item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gearshare/item-lending-backend/internal/auth"
	"github.com/gearshare/item-lending-backend/internal/booking"
	"github.com/gearshare/item-lending-backend/internal/user"
)

type testEnv struct {
	repo     Repository
	comments CommentRepository
	users    user.Service
	bookings booking.Repository
	svc      Service

	owner  *user.User
	renter *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	users := user.NewService(user.NewMemoryRepository(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))

	owner, err := users.Register(ctx, "owner@example.com", "password123", "Owner")
	require.NoError(t, err)
	renter, err := users.Register(ctx, "renter@example.com", "password123", "Renter")
	require.NoError(t, err)

	repo := NewMemoryRepository()
	comments := NewMemoryCommentRepository()
	bookings := booking.NewMemoryRepository()

	return &testEnv{
		repo:     repo,
		comments: comments,
		users:    users,
		bookings: bookings,
		svc:      NewService(repo, comments, users, bookings),
		owner:    owner,
		renter:   renter,
	}
}

func (e *testEnv) createItem(t *testing.T, name string) *Item {
	t.Helper()
	i, err := e.svc.Create(context.Background(), e.owner.ID, CreateRequest{
		Name:        name,
		Description: name + " description",
		Available:   true,
	})
	require.NoError(t, err)
	return i
}

func (e *testEnv) seedBooking(t *testing.T, itemID string, start, end time.Time, status booking.Status) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		ItemID:   itemID,
		BookerID: e.renter.ID,
		Start:    start,
		End:      end,
		Status:   status,
	}
	require.NoError(t, e.bookings.Create(context.Background(), b))
	return b
}

func TestUpdateByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	i := env.createItem(t, "Drill")

	name := "Renamed"
	_, err := env.svc.Update(ctx, i.ID, env.renter.ID, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdatePartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	i := env.createItem(t, "Drill")

	available := false
	updated, err := env.svc.Update(ctx, i.ID, env.owner.ID, UpdateRequest{Available: &available})
	require.NoError(t, err)

	assert.Equal(t, "Drill", updated.Name)
	assert.False(t, updated.Available)
}

func TestGetByIDBookingSummaryForOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	i := env.createItem(t, "Drill")
	env.seedBooking(t, i.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), booking.StatusApproved)
	env.seedBooking(t, i.ID, now.Add(24*time.Hour), now.Add(48*time.Hour), booking.StatusApproved)

	ownerView, err := env.svc.GetByID(ctx, env.owner.ID, i.ID)
	require.NoError(t, err)
	assert.NotNil(t, ownerView.LastBooking)
	assert.NotNil(t, ownerView.NextBooking)

	renterView, err := env.svc.GetByID(ctx, env.renter.ID, i.ID)
	require.NoError(t, err)
	assert.Nil(t, renterView.LastBooking)
	assert.Nil(t, renterView.NextBooking)
}

func TestBookingSummarySelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	i := env.createItem(t, "Drill")

	env.seedBooking(t, i.ID, now.Add(-96*time.Hour), now.Add(-72*time.Hour), booking.StatusApproved)
	current := env.seedBooking(t, i.ID, now.Add(-24*time.Hour), now.Add(24*time.Hour), booking.StatusApproved)
	env.seedBooking(t, i.ID, now.Add(24*time.Hour), now.Add(48*time.Hour), booking.StatusApproved)
	latest := env.seedBooking(t, i.ID, now.Add(72*time.Hour), now.Add(96*time.Hour), booking.StatusApproved)

	d, err := env.svc.GetByID(ctx, env.owner.ID, i.ID)
	require.NoError(t, err)

	// Last is the newest booking already started
	require.NotNil(t, d.LastBooking)
	assert.Equal(t, current.ID, d.LastBooking.ID)

	// Next is the first unfinished booking in start-descending order, which is
	// the one with the largest start rather than the soonest upcoming
	require.NotNil(t, d.NextBooking)
	assert.Equal(t, latest.ID, d.NextBooking.ID)
}

func TestListOwnerItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	booked := env.createItem(t, "Drill")
	idle := env.createItem(t, "Ladder")

	env.seedBooking(t, booked.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), booking.StatusApproved)

	details, err := env.svc.ListOwnerItems(ctx, env.owner.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	byID := make(map[string]*Details, len(details))
	for _, d := range details {
		byID[d.Item.ID] = d
	}

	assert.NotNil(t, byID[booked.ID].LastBooking)
	assert.Nil(t, byID[idle.ID].LastBooking)
	assert.Nil(t, byID[idle.ID].NextBooking)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createItem(t, "Cordless Drill")
	hidden, err := env.svc.Create(ctx, env.owner.ID, CreateRequest{
		Name:        "Drill Press",
		Description: "heavy duty",
		Available:   false,
	})
	require.NoError(t, err)

	items, err := env.svc.Search(ctx, "  DRILL ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEqual(t, hidden.ID, items[0].ID)

	// Blank search returns an empty result without consulting the store
	items, err = env.svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAddCommentRequiresFinishedBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	i := env.createItem(t, "Drill")

	// No booking at all
	_, err := env.svc.AddComment(ctx, env.renter.ID, i.ID, "nice drill")
	assert.ErrorIs(t, err, ErrCommentNotAllowed)

	// An approved booking still in progress does not qualify
	env.seedBooking(t, i.ID, now.Add(-time.Hour), now.Add(time.Hour), booking.StatusApproved)
	_, err = env.svc.AddComment(ctx, env.renter.ID, i.ID, "nice drill")
	assert.ErrorIs(t, err, ErrCommentNotAllowed)

	// A rejected booking in the past does not qualify either
	env.seedBooking(t, i.ID, now.Add(-72*time.Hour), now.Add(-48*time.Hour), booking.StatusRejected)
	_, err = env.svc.AddComment(ctx, env.renter.ID, i.ID, "nice drill")
	assert.ErrorIs(t, err, ErrCommentNotAllowed)
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	i := env.createItem(t, "Drill")
	env.seedBooking(t, i.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), booking.StatusApproved)

	c, err := env.svc.AddComment(ctx, env.renter.ID, i.ID, "worked great")
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Renter", c.AuthorName)
	assert.Equal(t, "worked great", c.Text)

	// Eligibility is re-checked per call; a second comment is fine
	_, err = env.svc.AddComment(ctx, env.renter.ID, i.ID, "still great")
	require.NoError(t, err)

	d, err := env.svc.GetByID(ctx, env.renter.ID, i.ID)
	require.NoError(t, err)
	assert.Len(t, d.Comments, 2)
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	i := env.createItem(t, "Drill")
	catalog := NewCatalog(env.repo)

	ref, err := catalog.GetItem(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, i.ID, ref.ID)
	assert.Equal(t, env.owner.ID, ref.OwnerID)
	assert.True(t, ref.Available)

	ids, err := catalog.OwnedItemIDs(ctx, env.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{i.ID}, ids)

	ids, err = catalog.OwnedItemIDs(ctx, env.renter.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
