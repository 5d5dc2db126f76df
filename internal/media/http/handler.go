package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/media"
	"github.com/medislot/appointment-backend/internal/pkg/request"
	"github.com/medislot/appointment-backend/internal/pkg/response"
)

const formField = "file"

type Handler struct {
	service media.Service
}

func NewHandler(service media.Service) *Handler {
	return &Handler{service: service}
}

// Upload accepts a multipart image under the "file" field.
func (h *Handler) Upload(c *gin.Context) {
	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	header, err := c.FormFile(formField)
	if err != nil {
		response.BadRequest(c, formField+" is required", err)
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	m, err := h.service.Upload(c.Request.Context(), media.UploadInput{
		Filename:  header.Filename,
		Content:   f,
		OwnerID:   p.Subject(),
		OwnerType: string(p.Type()),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "File uploaded successfully", gin.H{"media": NewMediaResponse(m)})
}

func (h *Handler) Serve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	stream, m, err := h.service.Open(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, m.ContentType, m.Filename)
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	stream, m, err := h.service.OpenThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG.
	h.stream(c, stream, "image/jpeg", m.Filename+"_thumb.jpg")
}

func (h *Handler) stream(c *gin.Context, r io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename="+strconv.Quote(filename))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("media stream interrupted")
	}
}

func (h *Handler) Delete(c *gin.Context) {
	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), p.Subject(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "File deleted successfully", nil)
}
