package request

// CreateStaffRequest creates a staff or admin account from the dashboard
type CreateStaffRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Role      string  `json:"role" validate:"required,oneof=staff admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=patient staff admin"`
}
