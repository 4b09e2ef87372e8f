package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type DoctorResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Availability   string    `json:"availability"`
	CreatedAt      time.Time `json:"created_at"`
}

type ServiceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Price        float64   `json:"price"`
	DurationMins int       `json:"duration_mins"`
	CreatedAt    time.Time `json:"created_at"`
}

type CatalogResponse struct {
	Doctors  []DoctorResponse  `json:"doctors"`
	Services []ServiceResponse `json:"services"`
}

func DoctorToResponse(d *entity.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID.String(),
		Name:           d.Name,
		Specialization: d.Specialization,
		Email:          d.Email,
		Phone:          d.Phone,
		Availability:   d.Availability,
		CreatedAt:      d.CreatedAt,
	}
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		Description:  s.Description,
		Price:        s.Price,
		DurationMins: s.DurationMins,
		CreatedAt:    s.CreatedAt,
	}
}

func DoctorsToResponse(doctors []*entity.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, DoctorToResponse(d))
	}
	return out
}

func ServicesToResponse(services []*entity.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceToResponse(s))
	}
	return out
}
