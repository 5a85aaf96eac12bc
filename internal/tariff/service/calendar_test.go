package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parkgate/internal/tariff/models"
)

func TestCalendarTimeBand(t *testing.T) {
	c := NewCalendar(6, 22, nil)

	tests := []struct {
		name string
		hour int
		want models.TimeBand
	}{
		{"midnight is night", 0, models.TimeBandNight},
		{"before day start is night", 5, models.TimeBandNight},
		{"day start is day", 6, models.TimeBandDay},
		{"midday is day", 13, models.TimeBandDay},
		{"last day hour is day", 21, models.TimeBandDay},
		{"day end is night", 22, models.TimeBandNight},
		{"late evening is night", 23, models.TimeBandNight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2024, time.January, 8, tt.hour, 30, 0, 0, time.UTC)
			assert.Equal(t, tt.want, c.TimeBand(at))
		})
	}
}

func TestCalendarDayBand(t *testing.T) {
	c := NewCalendar(6, 22, []string{"01-01", "12-25"})

	tests := []struct {
		name string
		date time.Time
		want models.DayBand
	}{
		{"monday is weekday", time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC), models.DayBandWeekday},
		{"friday is weekday", time.Date(2024, time.January, 12, 12, 0, 0, 0, time.UTC), models.DayBandWeekday},
		{"saturday is holiday", time.Date(2024, time.January, 13, 12, 0, 0, 0, time.UTC), models.DayBandHoliday},
		{"sunday is holiday", time.Date(2024, time.January, 14, 12, 0, 0, 0, time.UTC), models.DayBandHoliday},
		{"new year is holiday", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), models.DayBandHoliday},
		{"christmas is holiday", time.Date(2024, time.December, 25, 12, 0, 0, 0, time.UTC), models.DayBandHoliday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DayBand(tt.date))
		})
	}
}

func TestCalendarFallsBackOnBadWindow(t *testing.T) {
	c := NewCalendar(22, 6, nil)

	assert.Equal(t, models.TimeBandDay, c.TimeBand(time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.TimeBandNight, c.TimeBand(time.Date(2024, time.January, 8, 3, 0, 0, 0, time.UTC)))
}

func TestCalendarDayWindowEndingAtMidnight(t *testing.T) {
	c := NewCalendar(8, 24, nil)

	assert.Equal(t, models.TimeBandNight, c.TimeBand(time.Date(2024, time.January, 8, 7, 30, 0, 0, time.UTC)))
	assert.Equal(t, models.TimeBandDay, c.TimeBand(time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.TimeBandDay, c.TimeBand(time.Date(2024, time.January, 8, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, models.TimeBandNight, c.TimeBand(time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)))
}
