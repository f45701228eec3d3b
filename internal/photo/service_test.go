package photo

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearshare/item-lending-backend/internal/item"
)

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.files[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(s.files, path)
	return nil
}

type testEnv struct {
	repo  Repository
	items item.Repository
	store *fakeStorage
	svc   Service

	item *item.Item
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	items := item.NewMemoryRepository()
	it := &item.Item{OwnerID: "owner-1", Name: "Drill", Description: "cordless", Available: true}
	require.NoError(t, items.Create(ctx, it))

	repo := NewMemoryRepository()
	store := newFakeStorage()

	return &testEnv{
		repo:  repo,
		items: items,
		store: store,
		svc:   NewService(repo, items, store),
		item:  it,
	}
}

func (e *testEnv) seedPhoto(t *testing.T) *Photo {
	t.Helper()

	p := &Photo{
		ID:          "photo-1",
		ItemID:      e.item.ID,
		UserID:      e.item.OwnerID,
		Filename:    "drill.jpg",
		StoragePath: "upload/ph/photo-1.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, e.repo.Create(context.Background(), p))
	require.NoError(t, e.store.Save(context.Background(), p.StoragePath, bytes.NewReader([]byte("jpeg"))))
	return p
}

func TestDownload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedPhoto(t)

	stream, got, err := env.svc.Download(ctx, p.ID)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, p.Filename, got.Filename)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestDownloadUnknownPhoto(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.Download(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadThumbnailMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedPhoto(t)

	// No thumbnail was generated for this photo
	_, _, err := env.svc.DownloadThumbnail(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedPhoto(t)

	photos, err := env.svc.ListByItem(ctx, env.item.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 1)

	_, err = env.svc.ListByItem(ctx, "missing-item")
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestDeleteByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedPhoto(t)

	err := env.svc.Delete(ctx, "someone-else", p.ID)
	assert.ErrorIs(t, err, item.ErrAccessDenied)

	// Still there
	_, err = env.svc.Get(ctx, p.ID)
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedPhoto(t)

	require.NoError(t, env.svc.Delete(ctx, env.item.OwnerID, p.ID))

	_, err := env.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok := env.store.files[p.StoragePath]
	assert.False(t, ok)
}
