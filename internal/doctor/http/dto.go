package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/doctor"
	"github.com/medislot/appointment-backend/internal/pkg/request"
)

// ListDoctorsRequest defines query parameters for listing doctors.
type ListDoctorsRequest struct {
	request.ListParams
}

// CreateDoctorRequest is used by providers and administrators.
type CreateDoctorRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=256"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,phone"`
	About          *string `json:"about"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Qualifications *string `json:"qualifications" binding:"omitempty,max=256"`
	Specialty      *string `json:"specialty" binding:"omitempty,min=2,max=256"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url"`
}

func (r *CreateDoctorRequest) ToFields() doctor.Fields {
	return doctor.Fields{
		Name:           &r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		About:          r.About,
		Gender:         toGender(r.Gender),
		Qualifications: r.Qualifications,
		Specialty:      r.Specialty,
		ProfilePicture: r.ProfilePicture,
	}
}

// UpdateDoctorRequest is a partial update; omitted fields are left unchanged.
type UpdateDoctorRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=256"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,phone"`
	About          *string `json:"about"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Qualifications *string `json:"qualifications" binding:"omitempty,max=256"`
	Specialty      *string `json:"specialty" binding:"omitempty,min=2,max=256"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url"`
}

func (r *UpdateDoctorRequest) ToFields() doctor.Fields {
	return doctor.Fields{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		About:          r.About,
		Gender:         toGender(r.Gender),
		Qualifications: r.Qualifications,
		Specialty:      r.Specialty,
		ProfilePicture: r.ProfilePicture,
	}
}

// AdminCreateDoctorRequest requires a phone so the doctor can sign in.
type AdminCreateDoctorRequest struct {
	CreateDoctorRequest
	Phone *string `json:"phone" binding:"required,phone"`
}

func (r *AdminCreateDoctorRequest) ToFields() doctor.Fields {
	f := r.CreateDoctorRequest.ToFields()
	f.Phone = r.Phone
	return f
}

type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

func toGender(s *string) *doctor.Gender {
	if s == nil {
		return nil
	}
	g := doctor.Gender(*s)
	return &g
}

type DoctorResponse struct {
	ID             string    `json:"id"`
	HPID           *string   `json:"hpId"`
	Name           string    `json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	About          *string   `json:"about"`
	Gender         *string   `json:"gender"`
	Qualifications *string   `json:"qualifications"`
	Specialty      *string   `json:"specialty"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewDoctorResponse(d *doctor.Doctor) DoctorResponse {
	var gender *string
	if d.Gender != nil {
		g := string(*d.Gender)
		gender = &g
	}
	return DoctorResponse{
		ID:             d.ID,
		HPID:           d.HPID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		About:          d.About,
		Gender:         gender,
		Qualifications: d.Qualifications,
		Specialty:      d.Specialty,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func NewDoctorResponses(doctors []*doctor.Doctor) []DoctorResponse {
	items := make([]DoctorResponse, len(doctors))
	for i, d := range doctors {
		items[i] = NewDoctorResponse(d)
	}
	return items
}
