package doctor

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "Doctor not found")
	ErrNotOwned         = apperror.New(http.StatusNotFound, "Doctor not found or not authorized")
	ErrHasSchedules     = apperror.New(http.StatusConflict, "Doctor has schedules and cannot be deleted")
	ErrPhoneAlreadyUsed = apperror.New(http.StatusConflict, "Phone number already registered as a doctor")
	ErrPhoneUsedByUser  = apperror.New(http.StatusBadRequest, "Phone number is not available as a doctor")
	ErrNotRegistered    = apperror.New(http.StatusNotFound, "No doctor is registered with this phone number")
	ErrNoFieldsToUpdate = apperror.New(http.StatusBadRequest, "No fields to update")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "Doctor name is required")
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Doctor is a practitioner. Most doctors belong to a healthcare provider;
// doctors created by an administrator may not.
type Doctor struct {
	ID             string
	HPID           *string
	Name           string
	Email          *string
	Phone          *string
	About          *string
	Gender         *Gender
	Qualifications *string
	Specialty      *string
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Fields is the editable part of a doctor. Nil means "not set" on create and
// "leave as is" on update.
type Fields struct {
	Name           *string
	Email          *string
	Phone          *string
	About          *string
	Gender         *Gender
	Qualifications *string
	Specialty      *string
	ProfilePicture *string
}

func (f Fields) IsEmpty() bool {
	return f.Name == nil && f.Email == nil && f.Phone == nil && f.About == nil && f.Gender == nil &&
		f.Qualifications == nil && f.Specialty == nil && f.ProfilePicture == nil
}

// Filter defines filter options for listing doctors.
type Filter struct {
	HPID     string // empty lists every doctor
	Page     int
	PageSize int
}
