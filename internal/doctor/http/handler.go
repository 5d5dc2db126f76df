package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/doctor"
	"github.com/medislot/appointment-backend/internal/pkg/request"
	"github.com/medislot/appointment-backend/internal/pkg/response"
)

type Handler struct {
	service    doctor.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service doctor.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// === Provider-scoped ===

func (h *Handler) List(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ListDoctorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	doctors, total, err := h.service.ListForProvider(c.Request.Context(), hp.ID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Doctors retrieved successfully", gin.H{
		"doctors": NewDoctorResponses(doctors),
		"page":    response.NewPage(req.Page, req.PageSize, total),
	})
}

func (h *Handler) Create(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	d, err := h.service.CreateForProvider(c.Request.Context(), hp.ID, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Doctor created successfully", gin.H{"doctor": NewDoctorResponse(d)})
}

func (h *Handler) Get(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	d, err := h.service.GetForProvider(c.Request.Context(), hp.ID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Doctor retrieved successfully", gin.H{"doctor": NewDoctorResponse(d)})
}

func (h *Handler) Update(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	d, err := h.service.UpdateForProvider(c.Request.Context(), hp.ID, uri.ID, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Doctor updated successfully", gin.H{"doctor": NewDoctorResponse(d)})
}

func (h *Handler) Delete(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	if err := h.service.DeleteForProvider(c.Request.Context(), hp.ID, uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Doctor deleted successfully", nil)
}

// === Doctor self-service ===

func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := h.service.SendCode(c.Request.Context(), req.Phone); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Verification code sent to %s", req.Phone), gin.H{
		"phone": req.Phone,
	})
}

func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	d, err := h.service.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.Generate(auth.DoctorPrincipal{ID: d.ID, Phone: req.Phone})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"token":  token,
		"doctor": NewDoctorResponse(d),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, ok := auth.GetDoctor(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := h.service.GetProfile(c.Request.Context(), p.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", gin.H{"doctor": NewDoctorResponse(d)})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	p, ok := auth.GetDoctor(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	// Doctors cannot move their login number themselves.
	req.Phone = nil

	d, err := h.service.UpdateProfile(c.Request.Context(), p.ID, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", gin.H{"doctor": NewDoctorResponse(d)})
}

// === Administration ===

func (h *Handler) AdminList(c *gin.Context) {
	var req ListDoctorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	doctors, total, err := h.service.ListAll(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "List of all doctors", gin.H{
		"doctors": NewDoctorResponses(doctors),
		"page":    response.NewPage(req.Page, req.PageSize, total),
	})
}

func (h *Handler) AdminCreate(c *gin.Context) {
	var req AdminCreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	d, err := h.service.CreateUnaffiliated(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Doctor created successfully", gin.H{"doctor": NewDoctorResponse(d)})
}
