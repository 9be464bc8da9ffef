package gps

import (
	"fmt"
	"math"
	"strconv"
)

// DMS is a coordinate split for display as degrees, minutes and seconds.
type DMS struct {
	Degrees   int
	Minutes   int
	Seconds   float64
	Direction byte
}

// String renders d as 40°26'46.30"N.
func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.2f\"%c", d.Degrees, d.Minutes, d.Seconds, d.Direction)
}

// Decimal returns d as signed decimal degrees.
func (d DMS) Decimal() float64 {
	v := float64(d.Degrees) + float64(d.Minutes)/60 + d.Seconds/3600
	return applyDirection(v, d.Direction)
}

// UserPresentable splits an XMP GPSCoordinate into display numbers.
func UserPresentable(coordinate string) (DMS, error) {
	fields, ref, err := splitCoordinate(coordinate)
	if err != nil {
		return DMS{}, err
	}

	degrees, err := strconv.Atoi(fields[0])
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
	}
	out := DMS{Degrees: degrees, Direction: ref}

	if len(fields) == 2 {
		minutes, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return DMS{}, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
		}
		out.Minutes = int(math.Trunc(minutes))
		out.Seconds = (minutes - float64(out.Minutes)) * 60
		return out, nil
	}

	out.Minutes, err = strconv.Atoi(fields[1])
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
	}
	out.Seconds, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
	}
	return out, nil
}

// DegreesToDMS splits signed decimal degrees for display.
func DegreesToDMS(isLatitude bool, degrees float64) (DMS, error) {
	if degrees < -MaxDegrees || degrees > MaxDegrees || math.IsNaN(degrees) {
		return DMS{}, fmt.Errorf("%w: %v", ErrOutOfRange, degrees)
	}

	out := DMS{Direction: directionFor(isLatitude, degrees)}
	degrees = math.Abs(degrees)

	whole := math.Floor(degrees)
	minutes := (degrees - whole) * 60
	out.Degrees = int(whole)
	out.Minutes = int(math.Floor(minutes))
	out.Seconds = (minutes - float64(out.Minutes)) * 60
	return out, nil
}
