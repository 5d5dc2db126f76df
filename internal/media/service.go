package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medislot/appointment-backend/internal/pkg/storage"
)

type UploadInput struct {
	Filename  string
	Content   io.Reader
	OwnerID   string
	OwnerType string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Media, error)
	Get(ctx context.Context, id string) (*Media, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	OpenThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	// Delete removes a file owned by ownerID.
	Delete(ctx context.Context, ownerID, id string) error
}

type service struct {
	repo     Repository
	storage  storage.Storage
	images   *storage.ImageProcessor
	maxBytes int64
}

func NewService(repo Repository, store storage.Storage, maxBytes int64) Service {
	return &service{
		repo:     repo,
		storage:  store,
		images:   storage.NewImageProcessor(200, 200),
		maxBytes: maxBytes,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Media, error) {
	// Read one byte past the limit to tell "exactly max" from "too large".
	body, err := io.ReadAll(io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	mt := mimetype.Detect(body)
	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !slices.Contains(AllowedTypes, contentType) {
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	shard := id[:2]
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	storagePath := fmt.Sprintf("media/%s/%s%s", shard, id, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailPath *string
	if thumb, err := s.images.Thumbnail(bytes.NewReader(body)); err != nil {
		log.Warn().Err(err).Str("media_id", id).Msg("thumbnail generation failed")
	} else {
		p := fmt.Sprintf("media/%s/%s_thumb.jpg", shard, id)
		if err := s.storage.Save(ctx, p, bytes.NewReader(thumb)); err != nil {
			log.Warn().Err(err).Str("media_id", id).Msg("thumbnail save failed")
		} else {
			thumbnailPath = &p
		}
	}

	m := &Media{
		ID:            id,
		OwnerID:       in.OwnerID,
		OwnerType:     in.OwnerType,
		Filename:      filepath.Base(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(body)),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.removeBlobs(ctx, m)
		return nil, err
	}
	return m, nil
}

func (s *service) removeBlobs(ctx context.Context, m *Media) {
	if err := s.storage.Delete(ctx, m.StoragePath); err != nil {
		log.Warn().Err(err).Str("path", m.StoragePath).Msg("failed to remove stored file")
	}
	if m.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *m.ThumbnailPath); err != nil {
			log.Warn().Err(err).Str("path", *m.ThumbnailPath).Msg("failed to remove stored thumbnail")
		}
	}
}

func (s *service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) open(ctx context.Context, path string) (io.ReadCloser, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}
	return stream, nil
}

func (s *service) Open(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.open(ctx, m.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return stream, m, nil
}

func (s *service) OpenThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}
	stream, err := s.open(ctx, *m.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, m, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.OwnerID != ownerID {
		return ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeBlobs(ctx, m)
	return nil
}
