// internal/exif/exif.go
package exif

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/bstardust/photo-geometa/internal/gps"
	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/internal/orientation"
	"github.com/bstardust/photo-geometa/internal/rational"
)

// Data represents EXIF metadata
type Data struct {
	DateTime    *time.Time
	GPS         *gps.Position
	Orientation orientation.ExifOrientation
	Make        string
	Model       string
}

// Extract extracts EXIF metadata from a reader
func Extract(r io.Reader) (*Data, error) {
	// Parse EXIF
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}

	data := &Data{}

	// Extract date/time
	if dt, err := x.DateTime(); err == nil {
		data.DateTime = &dt
	}

	// Extract GPS info
	if pos, err := readPosition(x); err == nil {
		data.GPS = pos
	} else if !isNotPresent(err) {
		logger.Debug("Ignoring GPS block: %v", err)
	}

	if tag, err := x.Get(exif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil {
			data.Orientation = orientation.ExifOrientation(v)
		}
	}

	// Extract camera info
	data.Make = stringTag(x, exif.Make)
	data.Model = stringTag(x, exif.Model)

	return data, nil
}

// readPosition converts the raw GPS rational triples. The altitude is
// optional; latitude and longitude must both be present.
func readPosition(x *exif.Exif) (*gps.Position, error) {
	lat, err := readCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return nil, err
	}
	long, err := readCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return nil, err
	}

	pos := &gps.Position{Latitude: lat, Longitude: long}

	if alt, err := x.Get(exif.GPSAltitude); err == nil {
		r, err := ratAt(alt, 0)
		if err != nil {
			return pos, nil
		}
		ref := gps.AboveSeaLevel
		if refTag, err := x.Get(exif.GPSAltitudeRef); err == nil {
			if v, err := refTag.Int(0); err == nil {
				ref = byte(v)
			}
		}
		if meters, err := gps.AltitudeFromRational(r, ref); err == nil {
			pos.Altitude = meters
			pos.HasAltitude = true
		} else {
			logger.Debug("Ignoring GPS altitude: %v", err)
		}
	}

	return pos, nil
}

func readCoordinate(x *exif.Exif, field, refField exif.FieldName) (float64, error) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, err
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return 0, err
	}
	ref, err := refTag.StringVal()
	if err != nil || ref == "" {
		return 0, fmt.Errorf("%s: %w", refField, gps.ErrInvalidReference)
	}

	var triple [3]rational.Rational
	for i := range triple {
		// Short triples are padded with 0/0, which reads as zero.
		if i >= int(tag.Count) {
			break
		}
		if triple[i], err = ratAt(tag, i); err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
	}

	degrees, err := gps.RationalsToDegrees(triple[0], triple[1], triple[2], ref[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return degrees, nil
}

func ratAt(tag *tiff.Tag, i int) (rational.Rational, error) {
	num, den, err := tag.Rat2(i)
	if err != nil {
		return rational.Rational{}, err
	}
	return rational.New(num, den), nil
}

func isNotPresent(err error) bool {
	var notPresent exif.TagNotPresentError
	return errors.As(err, &notPresent)
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	str, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return str
}
