package entity

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentDeclined  AppointmentStatus = "declined"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// ActiveStatuses are the statuses that occupy a doctor slot
var ActiveStatuses = []AppointmentStatus{AppointmentPending, AppointmentConfirmed}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentDeclined,
		AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

func (s AppointmentStatus) Active() bool {
	return s == AppointmentPending || s == AppointmentConfirmed
}

func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentDeclined || s == AppointmentCancelled || s == AppointmentCompleted
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Appointment dates travel as YYYY-MM-DD and times as HH:MM:SS
type Appointment struct {
	BaseNoDelete
	UserID           uuid.UUID         `db:"user_id"`
	DoctorID         uuid.UUID         `db:"doctor_id"`
	ServiceID        uuid.UUID         `db:"service_id"`
	Date             string            `db:"appointment_date"`
	Time             string            `db:"appointment_time"`
	Status           AppointmentStatus `db:"status"`
	PaymentStatus    PaymentStatus     `db:"payment_status"`
	PaymentReference *string           `db:"payment_reference"`
	Notes            *string           `db:"notes"`
}

// AppointmentDetail is the read model joined with doctor, service and patient
type AppointmentDetail struct {
	Appointment
	DoctorName           string  `db:"doctor_name"`
	DoctorSpecialization string  `db:"doctor_specialization"`
	ServiceName          string  `db:"service_name"`
	ServicePrice         float64 `db:"service_price"`
	PatientFirstName     string  `db:"patient_first_name"`
	PatientLastName      string  `db:"patient_last_name"`
	PatientEmail         string  `db:"patient_email"`
}
