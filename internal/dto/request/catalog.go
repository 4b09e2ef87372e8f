package request

type DoctorRequest struct {
	Name           string  `json:"name" validate:"required,notblank,max=150"`
	Specialization string  `json:"specialization" validate:"required,notblank,max=150"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Availability   *string `json:"availability,omitempty" validate:"omitempty,max=255"`
}

type ServiceRequest struct {
	Name         string  `json:"name" validate:"required,notblank,max=150"`
	Description  *string `json:"description,omitempty"`
	Price        float64 `json:"price" validate:"gte=0"`
	DurationMins int     `json:"duration_mins" validate:"omitempty,gt=0,max=480"`
}
