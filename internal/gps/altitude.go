package gps

import (
	"fmt"
	"math"

	"github.com/bstardust/photo-geometa/internal/rational"
)

// Altitude references as stored in GPSAltitudeRef.
const (
	AboveSeaLevel byte = '0'
	BelowSeaLevel byte = '1'
)

// AltitudeToRational encodes meters as an unsigned EXIF rational rounded to
// digits, with the sea level reference carrying the sign.
func AltitudeToRational(meters float64, digits int) (rational.Rational, byte) {
	ref := AboveSeaLevel
	if meters < 0 {
		ref = BelowSeaLevel
	}
	return rational.Bounded(math.Abs(meters), digits), ref
}

// AltitudeFromRational decodes GPSAltitude and GPSAltitudeRef. The reference
// may be the ASCII digit or the raw EXIF byte 0/1.
func AltitudeFromRational(r rational.Rational, ref byte) (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("%w: altitude %s", ErrZeroDenominator, r)
	}

	v := r.Float64()
	switch ref {
	case AboveSeaLevel, 0:
		return v, nil
	case BelowSeaLevel, 1:
		return -v, nil
	}
	return 0, fmt.Errorf("%w: altitude reference %q", ErrInvalidReference, ref)
}
