package provider

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "Healthcare provider not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusBadRequest, "Email is already registered as a healthcare provider")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidOTP         = apperror.New(http.StatusBadRequest, "Invalid or expired OTP")
	ErrNoFieldsToUpdate   = apperror.New(http.StatusBadRequest, "No fields to update")
)

// Provider is a healthcare provider (clinic, hospital) that employs doctors
// and publishes their schedules.
type Provider struct {
	ID            string
	Name          string
	Email         string
	Type          *string
	Address       *string
	ContactNumber *string
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate holds the fields a provider may change. Nil means "leave as is".
type ProfileUpdate struct {
	Name          *string
	Type          *string
	Address       *string
	ContactNumber *string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Type == nil && u.Address == nil && u.ContactNumber == nil
}
