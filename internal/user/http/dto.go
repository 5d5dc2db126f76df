package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/user"
)

// SendCodeRequest starts a phone login.
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// VerifyCodeRequest completes a phone login.
type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// UpdateProfileRequest defines fields allowed to be updated via PUT /users/profile.
type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=256"`
	Email          *string `json:"email" binding:"omitempty,email"`
	DateOfBirth    *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url"`
}

func (r *UpdateProfileRequest) ToDomain() user.ProfileUpdate {
	return user.ProfileUpdate{
		Name:           r.Name,
		Email:          r.Email,
		DateOfBirth:    r.DateOfBirth,
		ProfilePicture: r.ProfilePicture,
	}
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID             string    `json:"id"`
	Name           *string   `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email"`
	DateOfBirth    *string   `json:"dateOfBirth"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Phone:          u.Phone,
		Email:          u.Email,
		DateOfBirth:    u.DateOfBirth,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
