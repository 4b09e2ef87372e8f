package entity

// Service is a clinic service a patient books an appointment for
type Service struct {
	BaseNoDelete
	Name         string  `db:"name"`
	Description  *string `db:"description"`
	Price        float64 `db:"price"`
	DurationMins int     `db:"duration_mins"`
}
