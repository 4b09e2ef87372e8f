package booking

import (
	"fmt"
	"time"

	"clinic-booking/pkg/utils"
)

const (
	DefaultOpenTime    = "09:00"
	DefaultCloseTime   = "18:00"
	DefaultSlotMinutes = 30
)

// Slot is one entry of the clinic grid
type Slot struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

// GenerateSlots lists slot start times from open up to, but excluding, closing.
func GenerateSlots(open, closing string, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, fmt.Errorf("slot step must be positive, got %s", step)
	}

	start, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	end, err := parseClock(closing)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("open time %s must be before close time %s", open, closing)
	}

	var slots []string
	for t := start; t.Before(end); t = t.Add(step) {
		slots = append(slots, t.Format(utils.TimeLayout))
	}
	return slots, nil
}

// MarkBooked pairs every grid slot with whether it appears in booked
func MarkBooked(grid, booked []string) []Slot {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	out := make([]Slot, len(grid))
	for i, g := range grid {
		_, isBooked := taken[g]
		out[i] = Slot{Time: g, Booked: isBooked}
	}
	return out
}

func parseClock(value string) (time.Time, error) {
	normalized, err := utils.NormalizeSlotTime(value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(utils.TimeLayout, normalized)
}
