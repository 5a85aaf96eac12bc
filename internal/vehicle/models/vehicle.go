package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "parkgate/pkg/domain-errors"
)

// VehicleType partitions the tariff table; every vehicle belongs to exactly
// one type.
type VehicleType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Vehicle links a plate to its type. The plate is the external identifier
// gate hardware reports on sensing.
type Vehicle struct {
	ID            int64     `json:"id"`
	Plate         string    `json:"plate"`
	VehicleTypeID int64     `json:"vehicle_type_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// plates are uppercased alphanumerics, 2 to 10 characters
var platePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NormalizePlate uppercases and strips spaces, then validates the shape.
func NormalizePlate(plate string) (string, error) {
	p := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
	if !platePattern.MatchString(p) {
		return "", dErrors.Newf(dErrors.CodeMalformedID, "malformed plate %q", plate)
	}
	return p, nil
}

func NewVehicle(plate string, vehicleTypeID int64, now time.Time) (*Vehicle, error) {
	normalized, err := NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	if vehicleTypeID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vehicle type id must be positive")
	}
	return &Vehicle{Plate: normalized, VehicleTypeID: vehicleTypeID, CreatedAt: now}, nil
}
