package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/media"
)

type MediaResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewMediaResponse(m *media.Media) MediaResponse {
	var thumb *string
	if m.ThumbnailPath != nil {
		t := media.ThumbnailURL(m.ID)
		thumb = &t
	}
	return MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		ContentType:  m.ContentType,
		Size:         m.Size,
		URL:          media.URL(m.ID),
		ThumbnailURL: thumb,
		CreatedAt:    m.CreatedAt,
	}
}
