package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/booking"
	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/request"
	"github.com/medislot/appointment-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// === User Routes ===

func (h *Handler) Create(c *gin.Context) {
	u, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Reserve(c.Request.Context(), booking.ReserveRequest{
		TimeSlotID: req.TimeSlotID,
		Date:       date,
		UserID:     u.ID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Booking created successfully", gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) List(c *gin.Context) {
	u, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	items, total, err := h.service.ListForUser(c.Request.Context(), u.ID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": NewBookingResponses(items),
		"page":     response.NewPage(filter.Page, filter.PageSize, total),
	})
}

func (h *Handler) Get(c *gin.Context) {
	u, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id", err)
		return
	}

	b, err := h.service.GetForUser(c.Request.Context(), u.ID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking retrieved successfully", gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) Cancel(c *gin.Context) {
	u, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id", err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), u.ID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking cancelled successfully", gin.H{"booking": NewBookingResponse(b)})
}

// === Provider Routes ===

func (h *Handler) ListForProvider(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	items, total, err := h.service.ListForProvider(c.Request.Context(), hp.ID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": NewBookingResponses(items),
		"page":     response.NewPage(filter.Page, filter.PageSize, total),
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id", err)
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), hp.ID, uri.ID, booking.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking updated successfully", gin.H{"booking": NewBookingResponse(b)})
}

func bindListFilter(c *gin.Context) (booking.Filter, bool) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return booking.Filter{}, false
	}
	req.Normalize()

	filter, err := req.ToFilter()
	if err != nil {
		response.Error(c, err)
		return booking.Filter{}, false
	}
	return filter, true
}
