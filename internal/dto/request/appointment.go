package request

type CreateAppointmentRequest struct {
	DoctorID        string  `json:"doctor_id" validate:"required,uuid"`
	ServiceID       string  `json:"service_id" validate:"required,uuid"`
	AppointmentDate string  `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime string  `json:"appointment_time" validate:"required,slot_time"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// SlotQuery is read from the query string of the slot endpoints
type SlotQuery struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

type MonthQuery struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=9999"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DeclineRequest reason is checked by the appointment state machine so a
// blank message gets its own error text
type DeclineRequest struct {
	DeclineMessage string `json:"decline_message"`
}

type UpdatePaymentRequest struct {
	PaymentStatus    string  `json:"payment_status" validate:"required"`
	PaymentReference *string `json:"payment_reference,omitempty" validate:"omitempty,max=255"`
}
