package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"notblank"`
	Time   string `json:"time" validate:"required,slot_time"`
	Role   string `json:"role" validate:"omitempty,oneof=patient staff admin"`
	Amount int    `json:"amount" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	valid := sampleRequest{Email: "pat@clinic.test", Name: "Pat", Time: "09:30", Role: "staff"}
	assert.Nil(t, ValidateStruct(valid))

	errs := ValidateStruct(sampleRequest{Email: "nope", Name: "   ", Time: "9am", Role: "owner", Amount: -1})

	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "This field is required", errs["name"])
	assert.Equal(t, "Must be a time of day as HH:MM or HH:MM:SS", errs["time"])
	assert.Equal(t, "Must be one of: patient, staff, admin", errs["role"])
	assert.Equal(t, "Must be at least 0", errs["amount"])
}

func TestFormatValidationErrors(t *testing.T) {
	assert.Equal(t, "email: Invalid email format", FormatValidationErrors(map[string]string{"email": "Invalid email format"}))
	assert.Empty(t, FormatValidationErrors(nil))
}
