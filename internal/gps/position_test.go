package gps

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstardust/photo-geometa/internal/rational"
)

func TestTagSet(t *testing.T) {
	tags, err := TagSet(Position{
		Latitude:    37.5,
		Longitude:   -122.5,
		Altitude:    12.5,
		HasAltitude: true,
	}, DefaultPrecision)
	require.NoError(t, err)

	want := map[string]string{
		TagVersionID:      "2 0 0 0",
		TagMapDatum:       "WGS-84",
		TagLatitudeRef:    "N",
		TagLatitude:       "37/1 30/1 0/1",
		TagLongitudeRef:   "W",
		TagLongitude:      "122/1 30/1 0/1",
		TagAltitudeRef:    "0",
		TagAltitude:       "15625/1250",
		XMPTagVersionID:   "2.0.0.0",
		XMPTagMapDatum:    "WGS-84",
		XMPTagLatitude:    "37,30.00000000N",
		XMPTagLongitude:   "122,30.00000000W",
		XMPTagAltitudeRef: "0",
		XMPTagAltitude:    "15625/1250",
	}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("TagSet() mismatch (-want +got):\n%s", diff)
	}
}

func TestTagSetWithoutAltitude(t *testing.T) {
	tags, err := TagSet(Position{Latitude: -10, Longitude: 20}, DefaultPrecision)
	require.NoError(t, err)

	assert.Equal(t, "S", tags[TagLatitudeRef])
	assert.Equal(t, "E", tags[TagLongitudeRef])
	assert.NotContains(t, tags, TagAltitude)
	assert.NotContains(t, tags, XMPTagAltitudeRef)
}

func TestTagSetOutOfRange(t *testing.T) {
	_, err := TagSet(Position{Latitude: 400}, DefaultPrecision)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestAltitudeToRational(t *testing.T) {
	r, ref := AltitudeToRational(-123.4, 4)
	assert.Equal(t, rational.New(77125, 625), r)
	assert.Equal(t, BelowSeaLevel, ref)

	r, ref = AltitudeToRational(8848, 2)
	assert.Equal(t, rational.New(8848, 1), r)
	assert.Equal(t, AboveSeaLevel, ref)
}

func TestAltitudeFromRational(t *testing.T) {
	tests := []struct {
		name string
		r    rational.Rational
		ref  byte
		want float64
	}{
		{"ascii above", rational.New(1234, 10), '0', 123.4},
		{"ascii below", rational.New(1234, 10), '1', -123.4},
		{"raw above", rational.New(5, 1), 0, 5},
		{"raw below", rational.New(5, 1), 1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AltitudeFromRational(tt.r, tt.ref)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := AltitudeFromRational(rational.New(1, 0), '0')
	assert.True(t, errors.Is(err, ErrZeroDenominator))
	_, err = AltitudeFromRational(rational.New(1, 1), 'x')
	assert.True(t, errors.Is(err, ErrInvalidReference))
}

func TestDegreesToDMS(t *testing.T) {
	d, err := DegreesToDMS(true, 40.44619444)
	require.NoError(t, err)
	assert.Equal(t, 40, d.Degrees)
	assert.Equal(t, 26, d.Minutes)
	assert.InDelta(t, 46.3, d.Seconds, 1e-4)
	assert.Equal(t, `40°26'46.30"N`, d.String())
	assert.InDelta(t, 40.44619444, d.Decimal(), 1e-9)

	d, err = DegreesToDMS(false, -122.5)
	require.NoError(t, err)
	assert.Equal(t, DMS{Degrees: 122, Minutes: 30, Seconds: 0, Direction: 'W'}, d)
	assert.InDelta(t, -122.5, d.Decimal(), 1e-12)

	_, err = DegreesToDMS(true, 361)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestUserPresentable(t *testing.T) {
	d, err := UserPresentable("122,5,34W")
	require.NoError(t, err)
	assert.Equal(t, DMS{Degrees: 122, Minutes: 5, Seconds: 34, Direction: 'W'}, d)

	d, err = UserPresentable("40,26.5n")
	require.NoError(t, err)
	assert.Equal(t, DMS{Degrees: 40, Minutes: 26, Seconds: 30, Direction: 'N'}, d)

	_, err = UserPresentable("abc,1N")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	_, err = UserPresentable("1,2")
	assert.Error(t, err)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "1.500000,-2.250000", Position{Latitude: 1.5, Longitude: -2.25}.String())
	assert.Equal(t, "1.500000,-2.250000,10.00m",
		Position{Latitude: 1.5, Longitude: -2.25, Altitude: 10, HasAltitude: true}.String())
}
