package media

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "File not found")
	ErrNoThumbnail      = apperror.New(http.StatusNotFound, "Thumbnail not available for this file")
	ErrFileTooLarge     = apperror.New(http.StatusRequestEntityTooLarge, "File is too large")
	ErrUnsupportedType  = apperror.New(http.StatusUnsupportedMediaType, "Only JPEG, PNG, GIF and WebP images are accepted")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "You can only delete your own files")
)

// AllowedTypes are the content types accepted for upload, as sniffed from the
// file body rather than taken from the client.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Media is an uploaded image, typically used as a profile picture.
type Media struct {
	ID            string
	OwnerID       string
	OwnerType     string // auth user type of the uploader
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path a client should store, e.g. in profilePicture.
func URL(id string) string {
	return "/v1/media/" + id
}

func ThumbnailURL(id string) string {
	return "/v1/media/" + id + "/thumbnail"
}
