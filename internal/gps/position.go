package gps

import (
	"fmt"
	"strings"

	"github.com/bstardust/photo-geometa/internal/rational"
)

// Fixed companion values written with every fresh GPS block.
const (
	VersionID    = "2 0 0 0"
	XMPVersionID = "2.0.0.0"
	MapDatum     = "WGS-84"
)

// Tag keys, Exiv2 style.
const (
	TagVersionID      = "Exif.GPSInfo.GPSVersionID"
	TagMapDatum       = "Exif.GPSInfo.GPSMapDatum"
	TagLatitudeRef    = "Exif.GPSInfo.GPSLatitudeRef"
	TagLatitude       = "Exif.GPSInfo.GPSLatitude"
	TagLongitudeRef   = "Exif.GPSInfo.GPSLongitudeRef"
	TagLongitude      = "Exif.GPSInfo.GPSLongitude"
	TagAltitudeRef    = "Exif.GPSInfo.GPSAltitudeRef"
	TagAltitude       = "Exif.GPSInfo.GPSAltitude"
	XMPTagVersionID   = "Xmp.exif.GPSVersionID"
	XMPTagMapDatum    = "Xmp.exif.GPSMapDatum"
	XMPTagLatitude    = "Xmp.exif.GPSLatitude"
	XMPTagLongitude   = "Xmp.exif.GPSLongitude"
	XMPTagAltitudeRef = "Xmp.exif.GPSAltitudeRef"
	XMPTagAltitude    = "Xmp.exif.GPSAltitude"
)

// Position is a GPS fix in signed decimal degrees and meters.
type Position struct {
	Latitude    float64
	Longitude   float64
	Altitude    float64
	HasAltitude bool
}

// Precision controls how many decimal digits Bounded keeps when a Position
// is encoded as rationals.
type Precision struct {
	SecondsDigits  int
	AltitudeDigits int
}

// DefaultPrecision keeps 1/10000 of an arc second and of a meter.
var DefaultPrecision = Precision{SecondsDigits: 4, AltitudeDigits: 4}

// String formats p as "lat,lon" with an optional altitude.
func (p Position) String() string {
	if p.HasAltitude {
		return fmt.Sprintf("%.6f,%.6f,%.2fm", p.Latitude, p.Longitude, p.Altitude)
	}
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// TagSet returns the EXIF and XMP values a metadata writer must store for p.
func TagSet(p Position, prec Precision) (map[string]string, error) {
	tags := map[string]string{
		TagVersionID:    VersionID,
		TagMapDatum:     MapDatum,
		XMPTagVersionID: XMPVersionID,
		XMPTagMapDatum:  MapDatum,
	}

	latD, latM, latS, latRef, err := DegreesToRationals(true, p.Latitude, prec.SecondsDigits)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lonD, lonM, lonS, lonRef, err := DegreesToRationals(false, p.Longitude, prec.SecondsDigits)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	tags[TagLatitudeRef] = string(latRef)
	tags[TagLatitude] = joinRationals(latD, latM, latS)
	tags[TagLongitudeRef] = string(lonRef)
	tags[TagLongitude] = joinRationals(lonD, lonM, lonS)

	if tags[XMPTagLatitude], err = CoordinateToString(true, p.Latitude); err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	if tags[XMPTagLongitude], err = CoordinateToString(false, p.Longitude); err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}

	if p.HasAltitude {
		alt, ref := AltitudeToRational(p.Altitude, prec.AltitudeDigits)
		tags[TagAltitudeRef] = string(ref)
		tags[TagAltitude] = alt.String()
		tags[XMPTagAltitudeRef] = string(ref)
		tags[XMPTagAltitude] = alt.String()
	}

	return tags, nil
}

func joinRationals(rs ...rational.Rational) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
