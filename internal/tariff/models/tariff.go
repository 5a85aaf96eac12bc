package models

import (
	"time"

	dErrors "parkgate/pkg/domain-errors"
)

// TimeBand partitions the day into a daytime and a nighttime window.
type TimeBand string

const (
	TimeBandDay   TimeBand = "day"
	TimeBandNight TimeBand = "night"
)

func (b TimeBand) Valid() bool {
	return b == TimeBandDay || b == TimeBandNight
}

// DayBand separates working days from weekends and calendar holidays.
type DayBand string

const (
	DayBandWeekday DayBand = "weekday"
	DayBandHoliday DayBand = "holiday"
)

func (b DayBand) Valid() bool {
	return b == DayBandWeekday || b == DayBandHoliday
}

// Rule prices one (facility, vehicle type, time band, day band) combination.
// At most one rule exists per combination; ambiguity is rejected at creation
// so lookup never depends on ordering.
type Rule struct {
	ID            int64     `json:"id"`
	FacilityID    int64     `json:"facility_id"`
	VehicleTypeID int64     `json:"vehicle_type_id"`
	AmountCents   int64     `json:"amount_cents"`
	TimeBand      TimeBand  `json:"time_band"`
	DayBand       DayBand   `json:"day_band"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Key identifies the combination a rule must be unique over.
type Key struct {
	FacilityID    int64
	VehicleTypeID int64
	TimeBand      TimeBand
	DayBand       DayBand
}

func (r *Rule) Key() Key {
	return Key{
		FacilityID:    r.FacilityID,
		VehicleTypeID: r.VehicleTypeID,
		TimeBand:      r.TimeBand,
		DayBand:       r.DayBand,
	}
}

func NewRule(facilityID, vehicleTypeID, amountCents int64, timeBand TimeBand, dayBand DayBand, now time.Time) (*Rule, error) {
	if facilityID <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedID, "facility id must be positive")
	}
	if vehicleTypeID <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedID, "vehicle type id must be positive")
	}
	if amountCents <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tariff amount must be positive")
	}
	if !timeBand.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid time band %q", timeBand)
	}
	if !dayBand.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid day band %q", dayBand)
	}
	return &Rule{
		FacilityID:    facilityID,
		VehicleTypeID: vehicleTypeID,
		AmountCents:   amountCents,
		TimeBand:      timeBand,
		DayBand:       dayBand,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
