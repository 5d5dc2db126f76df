package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/pkg/response"
	"github.com/medislot/appointment-backend/internal/user"
)

type Handler struct {
	service    user.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service user.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// SendCode texts a one-time login code to the phone number.
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

// VerifyCode exchanges a valid code for an access token.
// First-time phones are registered and answered with 201.
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	u, isNew, err := h.service.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.Generate(auth.UserPrincipal{ID: u.ID, Phone: u.Phone})
	if err != nil {
		response.Error(c, err)
		return
	}

	status, message := http.StatusOK, "Login successful"
	if isNew {
		status, message = http.StatusCreated, "Registration successful"
	}

	response.Success(c, status, message, gin.H{
		"token":     token,
		"user":      NewUserResponse(u),
		"isNewUser": isNew,
	})
}

// GetProfile returns the calling user's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	p, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", gin.H{"user": NewUserResponse(u)})
}

// UpdateProfile applies a partial update to the calling user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	p, ok := auth.GetUser(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), p.ID, req.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", gin.H{"user": NewUserResponse(u)})
}
