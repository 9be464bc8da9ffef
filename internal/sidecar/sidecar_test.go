package sidecar

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstardust/photo-geometa/internal/gps"
	"github.com/bstardust/photo-geometa/internal/orientation"
)

const packet = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:exif="http://ns.adobe.com/exif/1.0/"
    xmlns:tiff="http://ns.adobe.com/tiff/1.0/"
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    exif:GPSLatitude="40,26.77166667N"
    exif:GPSLongitude="122,5,34W"
    tiff:Orientation="8"
    xmp:CreateDate="2021-06-05T14:30:00+02:00">
   <exif:GPSAltitude>1234/10</exif:GPSAltitude>
   <exif:GPSAltitudeRef>1</exif:GPSAltitudeRef>
   <dc:title>
    <rdf:Alt>
     <rdf:li xml:lang="fr">Le pont</rdf:li>
     <rdf:li xml:lang="x-default">Golden Gate</rdf:li>
    </rdf:Alt>
   </dc:title>
   <dc:description><rdf:Alt><rdf:li xml:lang="en">Cafe&#x301; by the bay</rdf:li></rdf:Alt></dc:description>
   <dc:subject>
    <rdf:Bag>
     <rdf:li>bridge</rdf:li>
     <rdf:li>fog</rdf:li>
    </rdf:Bag>
   </dc:subject>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func TestRead(t *testing.T) {
	p, err := Read(strings.NewReader(packet))
	require.NoError(t, err)

	pos, err := p.GPS()
	require.NoError(t, err)
	assert.InDelta(t, 40.44619444, pos.Latitude, 1e-7)
	assert.InDelta(t, -122.09277778, pos.Longitude, 1e-7)
	assert.True(t, pos.HasAltitude)
	assert.InDelta(t, -123.4, pos.Altitude, 1e-9)

	o, err := p.Orientation()
	require.NoError(t, err)
	assert.Equal(t, orientation.Rot270, o)

	assert.Equal(t, "Golden Gate", p.Title())
	assert.Equal(t, "Café by the bay", p.Description())
	if diff := cmp.Diff([]string{"bridge", "fog"}, p.Keywords()); diff != "" {
		t.Errorf("Keywords() mismatch (-want +got):\n%s", diff)
	}

	created, err := p.CreateDate()
	require.NoError(t, err)
	assert.True(t, created.Equal(time.Date(2021, 6, 5, 12, 30, 0, 0, time.UTC)))
}

func TestReadIgnoresContentOutsideRDF(t *testing.T) {
	p, err := Read(strings.NewReader(`<x:xmpmeta xmlns:x="adobe:ns:meta/" xmlns:exif="http://ns.adobe.com/exif/1.0/">
<exif:GPSLatitude>1,0N</exif:GPSLatitude>
</x:xmpmeta>`))
	require.NoError(t, err)
	assert.Empty(t, p.Properties)

	_, err = p.GPS()
	assert.True(t, errors.Is(err, ErrNotPresent))
	_, err = p.Orientation()
	assert.True(t, errors.Is(err, ErrNotPresent))
	_, err = p.CreateDate()
	assert.True(t, errors.Is(err, ErrNotPresent))
	assert.Empty(t, p.Title())
	assert.Nil(t, p.Keywords())
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description>`))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestGPSInvalidCoordinate(t *testing.T) {
	p, err := Read(strings.NewReader(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description xmlns:exif="http://ns.adobe.com/exif/1.0/" exif:GPSLatitude="10,30X" exif:GPSLongitude="1,0E"/>
</rdf:RDF>`))
	require.NoError(t, err)

	_, err = p.GPS()
	assert.True(t, errors.Is(err, gps.ErrInvalidReference))
}

func TestOrientationInvalid(t *testing.T) {
	p, err := Read(strings.NewReader(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description xmlns:tiff="http://ns.adobe.com/tiff/1.0/"><tiff:Orientation>9</tiff:Orientation></rdf:Description>
</rdf:RDF>`))
	require.NoError(t, err)

	_, err = p.Orientation()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotPresent))
}

func TestPaths(t *testing.T) {
	tests := []struct {
		image string
		style PathStyle
		want  []string
	}{
		{"a/photo.jpg", Appended, []string{"a/photo.jpg.xmp"}},
		{"a/photo.jpg", Replaced, []string{"a/photo.xmp"}},
		{"a/photo.jpg", Both, []string{"a/photo.jpg.xmp", "a/photo.xmp"}},
		{"noext", Both, []string{"noext.xmp"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Paths(tt.image, tt.style)); diff != "" {
			t.Errorf("Paths(%q, %v) mismatch (-want +got):\n%s", tt.image, tt.style, diff)
		}
	}
}

func TestFindAndReadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"img/photo.jpg": {Data: []byte("jpeg")},
		"img/photo.xmp": {Data: []byte(packet)},
	}

	_, ok := Find(fsys, "img/photo.jpg", Appended)
	assert.False(t, ok)

	name, ok := Find(fsys, "img/photo.jpg", Both)
	require.True(t, ok)
	assert.Equal(t, "img/photo.xmp", name)

	p, err := ReadFile(fsys, name)
	require.NoError(t, err)
	assert.Equal(t, "Golden Gate", p.Title())
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle(" Both ")
	require.NoError(t, err)
	assert.Equal(t, Both, s)
	assert.Equal(t, "both", s.String())

	_, err = ParseStyle("sideways")
	assert.Error(t, err)
}
