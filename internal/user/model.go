package user

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "User not found")
	ErrPhoneAlreadyUsed  = apperror.New(http.StatusConflict, "Phone number already registered as a user")
	ErrPhoneUsedByDoctor = apperror.New(http.StatusBadRequest, "Phone number is not available as a user")
	ErrNoFieldsToUpdate  = apperror.New(http.StatusBadRequest, "No fields to update")
)

// User is a patient account. Users sign in with a phone number and a one-time code.
type User struct {
	ID             string
	Name           *string
	Phone          string
	Email          *string
	DateOfBirth    *string // YYYY-MM-DD
	ProfilePicture *string
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileUpdate holds the profile fields a user may change. Nil means "leave as is".
type ProfileUpdate struct {
	Name           *string
	Email          *string
	DateOfBirth    *string
	ProfilePicture *string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.DateOfBirth == nil && u.ProfilePicture == nil
}
