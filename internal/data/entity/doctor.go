package entity

const DefaultAvailability = "Monday-Friday, 9AM-5PM"

type Doctor struct {
	BaseNoDelete
	Name           string  `db:"name"`
	Specialization string  `db:"specialization"`
	Email          *string `db:"email"`
	Phone          *string `db:"phone"`
	Availability   string  `db:"availability"`
}
