package response

type StatsResponse struct {
	TotalUsers            int64 `json:"total_users"`
	TotalPatients         int64 `json:"total_patients"`
	TotalStaff            int64 `json:"total_staff"`
	TotalAdmins           int64 `json:"total_admins"`
	TotalAppointments     int64 `json:"total_appointments"`
	PendingAppointments   int64 `json:"pending_appointments"`
	ConfirmedAppointments int64 `json:"confirmed_appointments"`
	TotalDoctors          int64 `json:"total_doctors"`
	TotalServices         int64 `json:"total_services"`
}
