// Package booking holds the appointment admission policy, the appointment
// state machine and the clinic slot grid. It has no storage of its own and
// works through the narrow reader and store interfaces declared here.
package booking

import (
	"context"
	"slices"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

const DefaultDailyLimit = 5

// Reader is the slice of the appointment repository the policy needs
type Reader interface {
	CountByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string, statuses ...entity.AppointmentStatus) (int, error)
	GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, statuses ...entity.AppointmentStatus) ([]string, error)
}

// Request is a candidate booking. Date is YYYY-MM-DD and Time is HH:MM:SS.
type Request struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      string
	Time      string
}

// Policy decides whether a booking request is admissible.
//
// CountAllStatuses counts cancelled and declined appointments toward the daily
// limit. SlotActiveOnly lets cancelled and declined rows free their slot.
type Policy struct {
	DailyLimit       int
	CountAllStatuses bool
	SlotActiveOnly   bool
}

func DefaultPolicy() Policy {
	return Policy{
		DailyLimit:       DefaultDailyLimit,
		CountAllStatuses: true,
		SlotActiveOnly:   false,
	}
}

func (p Policy) countStatuses() []entity.AppointmentStatus {
	if p.CountAllStatuses {
		return nil
	}
	return entity.ActiveStatuses
}

// SlotStatuses returns the statuses that block a slot, nil meaning every row
func (p Policy) SlotStatuses() []entity.AppointmentStatus {
	if p.SlotActiveOnly {
		return entity.ActiveStatuses
	}
	return nil
}

// Validate checks the daily limit first and the slot second. It reads through
// reader, so callers that need the answer to hold must pass a transaction-bound reader.
func (p Policy) Validate(ctx context.Context, reader Reader, req Request) error {
	limit := p.DailyLimit
	if limit <= 0 {
		limit = DefaultDailyLimit
	}

	count, err := reader.CountByPatientAndDate(ctx, req.PatientID, req.Date, p.countStatuses()...)
	if err != nil {
		return apperror.Storage(err)
	}
	if count >= limit {
		return apperror.DailyLimitExceeded(limit)
	}

	booked, err := reader.GetBookedSlots(ctx, req.DoctorID, req.Date, p.SlotStatuses()...)
	if err != nil {
		return apperror.Storage(err)
	}
	if slices.Contains(booked, req.Time) {
		return apperror.SlotUnavailable()
	}

	return nil
}
