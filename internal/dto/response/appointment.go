package response

import (
	"time"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/data/entity"
)

type AppointmentResponse struct {
	ID                   string                   `json:"id"`
	UserID               string                   `json:"user_id"`
	DoctorID             string                   `json:"doctor_id"`
	ServiceID            string                   `json:"service_id"`
	AppointmentDate      string                   `json:"appointment_date"`
	AppointmentTime      string                   `json:"appointment_time"`
	Status               entity.AppointmentStatus `json:"status"`
	PaymentStatus        entity.PaymentStatus     `json:"payment_status"`
	PaymentReference     *string                  `json:"payment_reference"`
	Notes                *string                  `json:"notes"`
	DoctorName           string                   `json:"doctor_name,omitempty"`
	DoctorSpecialization string                   `json:"doctor_specialization,omitempty"`
	ServiceName          string                   `json:"service_name,omitempty"`
	ServicePrice         float64                  `json:"service_price,omitempty"`
	PatientFirstName     string                   `json:"patient_first_name,omitempty"`
	PatientLastName      string                   `json:"patient_last_name,omitempty"`
	PatientEmail         string                   `json:"patient_email,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

type CreateAppointmentResponse struct {
	AppointmentID string `json:"appointmentId"`
}

type BookedSlotsResponse struct {
	BookedSlots []string `json:"bookedSlots"`
}

type AvailableSlotsResponse struct {
	DoctorID string         `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []booking.Slot `json:"slots"`
}

func AppointmentToResponse(a *entity.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:               a.ID.String(),
		UserID:           a.UserID.String(),
		DoctorID:         a.DoctorID.String(),
		ServiceID:        a.ServiceID.String(),
		AppointmentDate:  a.Date,
		AppointmentTime:  a.Time,
		Status:           a.Status,
		PaymentStatus:    a.PaymentStatus,
		PaymentReference: a.PaymentReference,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func AppointmentDetailToResponse(d *entity.AppointmentDetail) AppointmentResponse {
	resp := AppointmentToResponse(&d.Appointment)
	resp.DoctorName = d.DoctorName
	resp.DoctorSpecialization = d.DoctorSpecialization
	resp.ServiceName = d.ServiceName
	resp.ServicePrice = d.ServicePrice
	resp.PatientFirstName = d.PatientFirstName
	resp.PatientLastName = d.PatientLastName
	resp.PatientEmail = d.PatientEmail
	return resp
}

func AppointmentDetailsToResponse(details []*entity.AppointmentDetail) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, AppointmentDetailToResponse(d))
	}
	return out
}
