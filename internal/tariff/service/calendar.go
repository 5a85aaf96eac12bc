package service

import (
	"time"

	"parkgate/internal/tariff/models"
)

// Calendar classifies instants into band pairs. The daytime window is
// [DayStartHour, DayEndHour); weekends are always holidays, plus any fixed
// "MM-DD" dates.
type Calendar struct {
	dayStartHour int
	dayEndHour   int
	holidays     map[string]struct{}
}

// NewCalendar builds a calendar. DayEndHour is exclusive, so 24 means the
// daytime window runs to midnight. Out-of-range hours fall back to the 06-22
// daytime window.
func NewCalendar(dayStartHour, dayEndHour int, fixedHolidays []string) *Calendar {
	if dayStartHour < 0 || dayStartHour > 23 || dayEndHour < 1 || dayEndHour > 24 || dayStartHour >= dayEndHour {
		dayStartHour, dayEndHour = 6, 22
	}
	holidays := make(map[string]struct{}, len(fixedHolidays))
	for _, d := range fixedHolidays {
		holidays[d] = struct{}{}
	}
	return &Calendar{dayStartHour: dayStartHour, dayEndHour: dayEndHour, holidays: holidays}
}

// TimeBand classifies the time of day.
func (c *Calendar) TimeBand(at time.Time) models.TimeBand {
	hour := at.Hour()
	if hour >= c.dayStartHour && hour < c.dayEndHour {
		return models.TimeBandDay
	}
	return models.TimeBandNight
}

// DayBand classifies the date. Saturdays, Sundays and configured fixed dates
// are holidays.
func (c *Calendar) DayBand(at time.Time) models.DayBand {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return models.DayBandHoliday
	}
	if _, ok := c.holidays[at.Format("01-02")]; ok {
		return models.DayBandHoliday
	}
	return models.DayBandWeekday
}
