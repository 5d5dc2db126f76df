package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/request"
	"github.com/medislot/appointment-backend/internal/pkg/response"
	"github.com/medislot/appointment-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

// bindProvider resolves the calling provider and the :id path parameter.
func bindProvider(c *gin.Context) (auth.ProviderPrincipal, string, bool) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return auth.ProviderPrincipal{}, "", false
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return auth.ProviderPrincipal{}, "", false
	}
	return hp, uri.ID, true
}

// === Provider Routes ===

// Create handles POST /hp/doctors/:id/schedules.
func (h *Handler) Create(c *gin.Context) {
	hp, doctorID, ok := bindProvider(c)
	if !ok {
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	in, err := req.ToDomain(hp.ID, doctorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Schedule created successfully", gin.H{
		"schedule": NewScheduleResponse(s),
	})
}

// ListForDoctor handles GET /hp/doctors/:id/schedules.
func (h *Handler) ListForDoctor(c *gin.Context) {
	hp, doctorID, ok := bindProvider(c)
	if !ok {
		return
	}

	var req ListSchedulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.DoctorID = doctorID
	h.listForProvider(c, hp.ID, req)
}

// ListForProvider handles GET /hp/schedules.
func (h *Handler) ListForProvider(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ListSchedulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	h.listForProvider(c, hp.ID, req)
}

func (h *Handler) listForProvider(c *gin.Context, hpID string, req ListSchedulesRequest) {
	req.Normalize()

	items, total, err := h.service.ListForProvider(c.Request.Context(), hpID, schedule.Filter{
		DoctorID: req.DoctorID,
		Status:   schedule.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Schedules retrieved successfully", gin.H{
		"schedules": NewScheduleResponses(items),
		"page":      response.NewPage(req.Page, req.PageSize, total),
	})
}

func (h *Handler) Get(c *gin.Context) {
	hp, id, ok := bindProvider(c)
	if !ok {
		return
	}

	s, err := h.service.GetForProvider(c.Request.Context(), hp.ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Schedule retrieved successfully", gin.H{"schedule": NewScheduleResponse(s)})
}

func (h *Handler) Cancel(c *gin.Context) {
	hp, id, ok := bindProvider(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), hp.ID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Schedule cancelled successfully", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	hp, id, ok := bindProvider(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), hp.ID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Schedule deleted successfully", nil)
}

// === Authenticated Routes ===

// ListByDoctor handles GET /doctors/:id/schedules and only shows active schedules.
func (h *Handler) ListByDoctor(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	var req request.ListParams
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.ListByDoctor(c.Request.Context(), uri.ID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Schedules retrieved successfully", gin.H{
		"schedules": NewScheduleResponses(items),
		"page":      response.NewPage(req.Page, req.PageSize, total),
	})
}

func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid schedule id", err)
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Availability retrieved successfully", gin.H{
		"date":  req.Date,
		"slots": NewAvailabilityResponses(slots),
	})
}

func (h *Handler) OpenDates(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid schedule id", err)
		return
	}

	var req OpenDatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, err := calendar.ParseDate(req.From)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	dates, err := h.service.ListOpenDates(c.Request.Context(), uri.ID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = calendar.FormatDate(d)
	}
	response.Success(c, http.StatusOK, "Open dates retrieved successfully", gin.H{"dates": out})
}
