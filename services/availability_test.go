package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotsFor_Weekend(t *testing.T) {
	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 52; i++ {
		sat := saturday.AddDate(0, 0, 7*i)
		sun := sat.AddDate(0, 0, 1)
		assert.Empty(t, SlotsFor(sat), sat.Format("2006-01-02"))
		assert.Empty(t, SlotsFor(sun), sun.Format("2006-01-02"))
		assert.NotNil(t, SlotsFor(sat))
	}
}

func TestSlotsFor_Weekday(t *testing.T) {
	want := []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
	}
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		day := monday.AddDate(0, 0, i)
		slots := SlotsFor(day)
		assert.Equal(t, want, slots, day.Weekday().String())

		seen := map[string]bool{}
		for _, s := range slots {
			assert.False(t, seen[s], "duplicate slot %s", s)
			seen[s] = true
		}
	}
}

func TestSlotsFor_Deterministic(t *testing.T) {
	day := time.Date(2025, 3, 5, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, SlotsFor(day), SlotsFor(day))
}

func TestIsSlotFor(t *testing.T) {
	tuesday := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.True(t, isSlotFor(tuesday, "11:30"))
	assert.True(t, isSlotFor(tuesday, "18:00"))
	assert.False(t, isSlotFor(tuesday, "12:00"))
	assert.False(t, isSlotFor(tuesday, "18:30"))
	assert.False(t, isSlotFor(tuesday, "9:00"))
	assert.False(t, isSlotFor(tuesday.AddDate(0, 0, 4), "10:00"))
}
