package photo

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gearshare/item-lending-backend/internal/item"
	"github.com/gearshare/item-lending-backend/internal/pkg/storage"
)

const (
	thumbnailMaxWidth  = 400
	thumbnailMaxHeight = 400
)

type Service interface {
	// Upload stores a photo for an item. Only the item's owner may attach
	// photos.
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, userID, itemID string) (*Photo, error)
	Get(ctx context.Context, id string) (*Photo, error)
	ListByItem(ctx context.Context, itemID string) ([]*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo    Repository
	items   item.Repository
	store   storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, items item.Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		items:   items,
		store:   store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, fileHeader *multipart.FileHeader, userID, itemID string) (*Photo, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, item.ErrAccessDenied
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer file.Close()

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	storagePath := filepath.Join("upload", id[:2], id+ext)

	if err := s.store.Save(ctx, storagePath, file); err != nil {
		return nil, fmt.Errorf("save photo failed: %w", err)
	}

	var thumbnailPath *string
	if _, err := file.Seek(0, io.SeekStart); err == nil {
		thumbPath := filepath.Join("upload", id[:2], id+"_thumb.jpg")
		if err := s.generateThumbnail(ctx, file, thumbPath); err != nil {
			log.Printf("generate thumbnail for %s failed: %v", id, err)
		} else {
			thumbnailPath = &thumbPath
		}
	}

	photo := &Photo{
		ID:            id,
		ItemID:        itemID,
		UserID:        userID,
		Filename:      fileHeader.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Size:          fileHeader.Size,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, photo); err != nil {
		s.cleanupFiles(ctx, photo)
		return nil, err
	}
	return photo, nil
}

func (s *service) Get(ctx context.Context, id string) (*Photo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Photo, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListByItemID(ctx, itemID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Get(ctx, photo.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read photo failed: %w", err)
	}
	return reader, photo, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if photo.ThumbnailPath == nil {
		return nil, nil, ErrNotFound
	}

	reader, err := s.store.Get(ctx, *photo.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read thumbnail failed: %w", err)
	}
	return reader, photo, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	it, err := s.items.GetByID(ctx, photo.ItemID)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return item.ErrAccessDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cleanupFiles(ctx, photo)
	return nil
}

func (s *service) generateThumbnail(ctx context.Context, src io.Reader, path string) error {
	thumb, err := s.imgProc.GenerateThumbnail(src, thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, path, thumb)
}

// cleanupFiles removes stored files best-effort. Orphaned files are logged,
// not surfaced.
func (s *service) cleanupFiles(ctx context.Context, photo *Photo) {
	if err := s.store.Delete(ctx, photo.StoragePath); err != nil {
		log.Printf("delete photo file %s failed: %v", photo.StoragePath, err)
	}
	if photo.ThumbnailPath != nil {
		if err := s.store.Delete(ctx, *photo.ThumbnailPath); err != nil {
			log.Printf("delete thumbnail file %s failed: %v", *photo.ThumbnailPath, err)
		}
	}
}
