package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsDefaultGrid(t *testing.T) {
	slots, err := GenerateSlots(DefaultOpenTime, DefaultCloseTime, DefaultSlotMinutes*time.Minute)
	require.NoError(t, err)

	require.Len(t, slots, 18)
	assert.Equal(t, "09:00:00", slots[0])
	assert.Equal(t, "09:30:00", slots[1])
	assert.Equal(t, "17:30:00", slots[len(slots)-1])
}

func TestGenerateSlotsErrors(t *testing.T) {
	_, err := GenerateSlots("18:00", "09:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = GenerateSlots("nine", "18:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = GenerateSlots("09:00", "18:00", 0)
	assert.Error(t, err)
}

func TestMarkBooked(t *testing.T) {
	grid := []string{"09:00:00", "09:30:00", "10:00:00"}

	slots := MarkBooked(grid, []string{"09:30:00", "13:00:00"})

	assert.Equal(t, []Slot{
		{Time: "09:00:00", Booked: false},
		{Time: "09:30:00", Booked: true},
		{Time: "10:00:00", Booked: false},
	}, slots)
}
