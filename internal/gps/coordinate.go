// internal/gps/coordinate.go
package gps

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bstardust/photo-geometa/internal/rational"
)

// MaxDegrees is the largest magnitude CoordinateToString accepts.
const MaxDegrees = 360.0

// absent marks a rational component some encoders leave unset.
const absent = -1.0

// CoordinateToString formats degrees in the XMP GPSCoordinate form
// "DDD,MM.mmmmmmmmR": whole degrees, minutes with eight decimals and the
// direction letter. The sign of degrees picks N/S for latitudes and E/W for
// longitudes.
func CoordinateToString(isLatitude bool, degrees float64) (string, error) {
	if degrees < -MaxDegrees || degrees > MaxDegrees || math.IsNaN(degrees) {
		return "", fmt.Errorf("%w: %v", ErrOutOfRange, degrees)
	}

	ref := directionFor(isLatitude, degrees)
	degrees = math.Abs(degrees)

	whole := math.Floor(degrees)
	minutes := (degrees - whole) * 60
	return fmt.Sprintf("%d,%.8f%c", int(whole), minutes, ref), nil
}

// ParseCoordinate reads an XMP GPSCoordinate, either "D,M.mmR" or "D,M,SR",
// and returns signed decimal degrees.
func ParseCoordinate(coordinate string) (float64, error) {
	fields, ref, err := splitCoordinate(coordinate)
	if err != nil {
		return 0, err
	}

	var degrees float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
		}
		switch i {
		case 0:
			degrees = v
		case 1:
			degrees += v / 60
		case 2:
			degrees += v / 3600
		}
	}

	return applyDirection(degrees, ref), nil
}

// RationalsToDegrees converts an EXIF GPS triple and its reference tag to
// signed decimal degrees. A 0/0 component is read as zero; any other zero
// denominator fails. Components whose value is -1 are skipped. Only S and W
// negate; any other reference leaves the value positive.
func RationalsToDegrees(deg, min, sec rational.Rational, ref byte) (float64, error) {
	if r, err := normalizeRef(ref); err == nil {
		ref = r
	}

	var degrees float64
	for i, r := range [3]rational.Rational{deg, min, sec} {
		if r.Den == 0 {
			if r.Num != 0 {
				return 0, fmt.Errorf("%w: %s", ErrZeroDenominator, r)
			}
			r.Den = 1
		}
		v := r.Float64()
		if v == absent {
			continue
		}
		switch i {
		case 0:
			degrees += v
		case 1:
			degrees += v / 60
		case 2:
			degrees += v / 3600
		}
	}

	return applyDirection(degrees, ref), nil
}

// DegreesToRationals splits signed decimal degrees into the EXIF triple
// whole-degrees/1, whole-minutes/1 and seconds rounded to secondsDigits,
// plus the direction reference.
func DegreesToRationals(isLatitude bool, degrees float64, secondsDigits int) (deg, min, sec rational.Rational, ref byte, err error) {
	if degrees < -MaxDegrees || degrees > MaxDegrees || math.IsNaN(degrees) {
		err = fmt.Errorf("%w: %v", ErrOutOfRange, degrees)
		return
	}

	ref = directionFor(isLatitude, degrees)
	degrees = math.Abs(degrees)

	wholeDegrees := math.Floor(degrees)
	minutes := (degrees - wholeDegrees) * 60
	wholeMinutes := math.Floor(minutes)
	seconds := (minutes - wholeMinutes) * 60

	deg = rational.New(int64(wholeDegrees), 1)
	min = rational.New(int64(wholeMinutes), 1)
	sec = rational.Bounded(seconds, secondsDigits)
	return
}

// RationalsToString renders an EXIF triple as an XMP GPSCoordinate. Integral
// triples keep the "D,M,SR" form; anything else is folded into decimal
// minutes with trailing zeros removed.
func RationalsToString(deg, min, sec rational.Rational, ref byte) (string, error) {
	ref, err := normalizeRef(ref)
	if err != nil {
		return "", err
	}
	if sec.IsZero() {
		sec.Den = 1
	}
	if deg.Den == 0 || min.Den == 0 || sec.Den == 0 {
		return "", fmt.Errorf("%w: %s %s %s", ErrZeroDenominator, deg, min, sec)
	}

	if deg.IsIntegral() && min.IsIntegral() && sec.IsIntegral() {
		return fmt.Sprintf("%d,%d,%d%c", deg.Num, min.Num, sec.Num, ref), nil
	}

	degrees := deg.Float64()
	wholeDegrees := math.Trunc(degrees)
	minutes := min.Float64() + (degrees-wholeDegrees)*60 + sec.Float64()/60

	minutesStr := strconv.FormatFloat(minutes, 'f', 8, 64)
	for strings.HasSuffix(minutesStr, "0") && !strings.HasSuffix(minutesStr, ".0") {
		minutesStr = minutesStr[:len(minutesStr)-1]
	}
	return fmt.Sprintf("%d,%s%c", int64(wholeDegrees), minutesStr, ref), nil
}

// StringToRationals parses an XMP GPSCoordinate into an EXIF triple. Decimal
// minutes are kept with a fixed denominator of 1000000.
func StringToRationals(coordinate string) (deg, min, sec rational.Rational, ref byte, err error) {
	fields, ref, err := splitCoordinate(coordinate)
	if err != nil {
		return
	}

	d, perr := strconv.ParseInt(fields[0], 10, 64)
	if perr != nil {
		err = fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
		return
	}
	deg = rational.New(d, 1)

	if len(fields) == 2 {
		m, perr := strconv.ParseFloat(fields[1], 64)
		if perr != nil {
			err = fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
			return
		}
		min = rational.New(int64(math.Round(m*minutesScale)), minutesScale)
		sec = rational.New(0, 1)
		return
	}

	m, perr := strconv.ParseInt(fields[1], 10, 64)
	if perr != nil {
		err = fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
		return
	}
	s, perr := strconv.ParseInt(fields[2], 10, 64)
	if perr != nil {
		err = fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
		return
	}
	min = rational.New(m, 1)
	sec = rational.New(s, 1)
	return
}

const minutesScale = 1000000

// splitCoordinate separates the trailing direction letter and the comma
// separated fields. Exactly two or three fields are accepted.
func splitCoordinate(coordinate string) ([]string, byte, error) {
	coordinate = strings.TrimSpace(coordinate)
	if len(coordinate) < 2 {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, coordinate)
	}

	ref, err := normalizeRef(coordinate[len(coordinate)-1])
	if err != nil {
		return nil, 0, err
	}

	fields := strings.Split(coordinate[:len(coordinate)-1], ",")
	if len(fields) != 2 && len(fields) != 3 {
		return nil, 0, fmt.Errorf("%w: %q has %d fields", ErrInvalidFormat, coordinate, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, ref, nil
}

func directionFor(isLatitude bool, degrees float64) byte {
	switch {
	case isLatitude && degrees < 0:
		return 'S'
	case isLatitude:
		return 'N'
	case degrees < 0:
		return 'W'
	default:
		return 'E'
	}
}

func normalizeRef(ref byte) (byte, error) {
	switch ref {
	case 'N', 'n':
		return 'N', nil
	case 'S', 's':
		return 'S', nil
	case 'E', 'e':
		return 'E', nil
	case 'W', 'w':
		return 'W', nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
}

func applyDirection(degrees float64, ref byte) float64 {
	if ref == 'S' || ref == 'W' {
		return -degrees
	}
	return degrees
}

// IsLatitudeRef reports whether ref is N or S.
func IsLatitudeRef(ref byte) bool {
	ref, err := normalizeRef(ref)
	return err == nil && (ref == 'N' || ref == 'S')
}
