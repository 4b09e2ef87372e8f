package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SlotCache keeps booked-slot lists for the public availability endpoints.
// It is a read optimization only; booking admission always goes to the database.
//
// Every key carries a generation that Invalidate bumps. Readers take the
// generation before querying the database and hand it back to SetBookedSlots,
// which drops the write when an invalidation happened in between.
type SlotCache interface {
	GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, bool, error)
	Generation(ctx context.Context, doctorID uuid.UUID, date string) (int64, error)
	SetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, generation int64, slots []string) (bool, error)
	Invalidate(ctx context.Context, doctorID uuid.UUID, date string) error
}

func slotKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("booked_slots:%s:%s", doctorID, date)
}

func generationKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("booked_slots_gen:%s:%s", doctorID, date)
}
