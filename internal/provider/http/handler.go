package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/pkg/response"
	"github.com/medislot/appointment-backend/internal/provider"
)

type Handler struct {
	service    provider.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service provider.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// VerifyEmail emails a sign-up code to an address not yet registered.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := h.service.SendEmailCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Verification code sent to %s", req.Email), gin.H{
		"email": req.Email,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Register(c.Request.Context(), provider.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		OTP:      req.OTP,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "Healthcare provider registered successfully", p)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", p)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, message string, p *provider.Provider) {
	token, err := h.jwtManager.Generate(auth.ProviderPrincipal{ID: p.ID, Email: p.Email})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, status, message, gin.H{
		"token": token,
		"hp":    NewProviderResponse(p),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), hp.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", gin.H{"hp": NewProviderResponse(p)})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	hp, ok := auth.GetProvider(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), hp.ID, req.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", gin.H{"hp": NewProviderResponse(p)})
}
