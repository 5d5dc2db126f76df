package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/provider"
)

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required,len=6,numeric"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type UpdateProfileRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=256"`
	Type          *string `json:"type" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=200"`
	ContactNumber *string `json:"contactNumber" binding:"omitempty,phone"`
}

func (r *UpdateProfileRequest) ToDomain() provider.ProfileUpdate {
	return provider.ProfileUpdate{
		Name:          r.Name,
		Type:          r.Type,
		Address:       r.Address,
		ContactNumber: r.ContactNumber,
	}
}

// ProviderResponse never includes the password hash.
type ProviderResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Type          *string   `json:"type"`
	Address       *string   `json:"address"`
	ContactNumber *string   `json:"contactNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewProviderResponse(p *provider.Provider) ProviderResponse {
	return ProviderResponse{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Type:          p.Type,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
