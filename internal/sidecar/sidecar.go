// Package sidecar reads the XMP sidecar files that sit next to images and
// exposes the GPS, orientation and descriptive properties stored in them.
package sidecar

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/bstardust/photo-geometa/internal/gps"
	"github.com/bstardust/photo-geometa/internal/orientation"
	"github.com/bstardust/photo-geometa/internal/rational"
)

// XMP namespaces used by the accessors.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	ExifNamespace = "http://ns.adobe.com/exif/1.0/"
	TIFFNamespace = "http://ns.adobe.com/tiff/1.0/"
	DCNamespace   = "http://purl.org/dc/elements/1.1/"
	XMPNamespace  = "http://ns.adobe.com/xap/1.0/"
	xmlNamespace  = "http://www.w3.org/XML/1998/namespace"
)

var (
	// ErrNotPresent is returned by accessors when the property is missing.
	ErrNotPresent = errors.New("property not present")
	// ErrMalformed is returned by Read for packets that are not valid XML.
	ErrMalformed = errors.New("malformed XMP packet")
)

var (
	nameRDF         = xml.Name{Space: RDFNamespace, Local: "RDF"}
	nameDescription = xml.Name{Space: RDFNamespace, Local: "Description"}
	nameLi          = xml.Name{Space: RDFNamespace, Local: "li"}
	nameXMLLang     = xml.Name{Space: xmlNamespace, Local: "lang"}
)

// Property is a simple or array valued XMP property. For arrays Value holds
// the x-default item, or the first item when no default is marked.
type Property struct {
	Value string
	Items []string
}

// Packet holds the properties of every rdf:Description in an XMP packet.
type Packet struct {
	Properties map[xml.Name]Property
}

// ReadFile reads an XMP packet from a file in fsys.
func ReadFile(fsys fs.FS, name string) (*Packet, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads an XMP packet from a reader. Both attribute and element forms
// of simple properties are recognised, as are rdf:Alt, rdf:Seq and rdf:Bag
// arrays. Text is normalised to NFC.
func Read(r io.Reader) (*Packet, error) {
	dec := xml.NewDecoder(r)
	p := &Packet{
		Properties: make(map[xml.Name]Property),
	}

	var level int
	descriptionLevel := -1
	propertyLevel := -1
	var propertyName xml.Name
	var propertyTokens []xml.Token
	for {
		t, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := t.(type) {
		case xml.StartElement:
			if level == 0 && t.Name != nameRDF {
				continue
			}
			level++

			switch {
			case descriptionLevel < 0 && t.Name == nameDescription:
				descriptionLevel = level
				for _, a := range t.Attr {
					if isPropertyAttr(a.Name) {
						p.Properties[a.Name] = Property{Value: norm.NFC.String(a.Value)}
					}
				}
			case descriptionLevel >= 0 && propertyLevel < 0:
				propertyLevel = level
				propertyName = t.Name
				propertyTokens = propertyTokens[:0]
			case propertyLevel >= 0:
				propertyTokens = append(propertyTokens, xml.CopyToken(t))
			}

		case xml.EndElement:
			if level == 0 {
				continue
			}
			switch {
			case level == propertyLevel:
				p.Properties[propertyName] = decodeProperty(propertyTokens)
				propertyLevel = -1
			case propertyLevel >= 0:
				propertyTokens = append(propertyTokens, t)
			case level == descriptionLevel:
				descriptionLevel = -1
			}
			level--

		case xml.CharData:
			if propertyLevel >= 0 {
				propertyTokens = append(propertyTokens, xml.CopyToken(t))
			}
		}
	}
	return p, nil
}

func isPropertyAttr(name xml.Name) bool {
	switch name.Space {
	case "", "xmlns", RDFNamespace, xmlNamespace:
		return false
	}
	return true
}

// decodeProperty turns the tokens between a property's start and end tags
// into a Property.
func decodeProperty(tokens []xml.Token) Property {
	var text, item strings.Builder
	var prop Property
	depth := 0
	inItem := false
	defaultItem := -1

	for _, token := range tokens {
		switch token := token.(type) {
		case xml.StartElement:
			depth++
			if token.Name == nameLi && !inItem {
				inItem = true
				item.Reset()
				for _, a := range token.Attr {
					if a.Name == nameXMLLang && a.Value == "x-default" {
						defaultItem = len(prop.Items)
					}
				}
			}
		case xml.EndElement:
			depth--
			if token.Name == nameLi && inItem {
				prop.Items = append(prop.Items, norm.NFC.String(strings.TrimSpace(item.String())))
				inItem = false
			}
		case xml.CharData:
			if inItem {
				item.Write(token)
			} else if depth == 0 {
				text.Write(token)
			}
		}
	}

	prop.Value = norm.NFC.String(strings.TrimSpace(text.String()))
	if len(prop.Items) > 0 {
		if defaultItem < 0 {
			defaultItem = 0
		}
		prop.Value = prop.Items[defaultItem]
	}
	return prop
}

// Get returns the value of a property.
func (p *Packet) Get(ns, local string) (string, bool) {
	prop, ok := p.Properties[xml.Name{Space: ns, Local: local}]
	if !ok {
		return "", false
	}
	return prop.Value, true
}

// Items returns the array items of a property, or the single value of a
// simple property.
func (p *Packet) Items(ns, local string) []string {
	prop, ok := p.Properties[xml.Name{Space: ns, Local: local}]
	if !ok {
		return nil
	}
	if len(prop.Items) > 0 {
		return append([]string(nil), prop.Items...)
	}
	if prop.Value == "" {
		return nil
	}
	return []string{prop.Value}
}

// GPS returns the position stored in exif:GPSLatitude, exif:GPSLongitude and
// optionally exif:GPSAltitude/exif:GPSAltitudeRef.
func (p *Packet) GPS() (*gps.Position, error) {
	latStr, hasLat := p.Get(ExifNamespace, "GPSLatitude")
	lonStr, hasLon := p.Get(ExifNamespace, "GPSLongitude")
	if !hasLat || !hasLon {
		return nil, fmt.Errorf("GPS position: %w", ErrNotPresent)
	}

	lat, err := gps.ParseCoordinate(latStr)
	if err != nil {
		return nil, fmt.Errorf("exif:GPSLatitude: %w", err)
	}
	lon, err := gps.ParseCoordinate(lonStr)
	if err != nil {
		return nil, fmt.Errorf("exif:GPSLongitude: %w", err)
	}
	pos := &gps.Position{Latitude: lat, Longitude: lon}

	if altStr, ok := p.Get(ExifNamespace, "GPSAltitude"); ok {
		alt, err := rational.Parse(altStr)
		if err != nil {
			return nil, fmt.Errorf("exif:GPSAltitude: %w", err)
		}
		ref := gps.AboveSeaLevel
		if refStr, ok := p.Get(ExifNamespace, "GPSAltitudeRef"); ok && refStr != "" {
			ref = refStr[0]
		}
		meters, err := gps.AltitudeFromRational(alt, ref)
		if err != nil {
			return nil, fmt.Errorf("exif:GPSAltitude: %w", err)
		}
		pos.Altitude = meters
		pos.HasAltitude = true
	}

	return pos, nil
}

// Orientation returns tiff:Orientation.
func (p *Packet) Orientation() (orientation.ExifOrientation, error) {
	s, ok := p.Get(TIFFNamespace, "Orientation")
	if !ok {
		return orientation.Unspecified, fmt.Errorf("tiff:Orientation: %w", ErrNotPresent)
	}
	v, err := strconv.Atoi(s)
	if err != nil || !orientation.ExifOrientation(v).Valid() {
		return orientation.Unspecified, fmt.Errorf("tiff:Orientation: invalid value %q", s)
	}
	return orientation.ExifOrientation(v), nil
}

// Title returns the default language dc:title.
func (p *Packet) Title() string {
	s, _ := p.Get(DCNamespace, "title")
	return s
}

// Description returns the default language dc:description.
func (p *Packet) Description() string {
	s, _ := p.Get(DCNamespace, "description")
	return s
}

// Keywords returns the dc:subject bag.
func (p *Packet) Keywords() []string {
	return p.Items(DCNamespace, "subject")
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CreateDate returns exif:DateTimeOriginal, falling back to xmp:CreateDate.
func (p *Packet) CreateDate() (time.Time, error) {
	s, ok := p.Get(ExifNamespace, "DateTimeOriginal")
	if !ok {
		s, ok = p.Get(XMPNamespace, "CreateDate")
	}
	if !ok {
		return time.Time{}, fmt.Errorf("create date: %w", ErrNotPresent)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("create date: invalid value %q", s)
}
