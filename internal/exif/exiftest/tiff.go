// Package exiftest builds minimal little-endian TIFF/EXIF blobs for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
)

// TIFF field types.
const (
	typeByte     = 1
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// GPS describes the GPS IFD. Rationals are numerator/denominator pairs.
type GPS struct {
	LatitudeRef  string
	Latitude     [][2]uint32
	LongitudeRef string
	Longitude    [][2]uint32
	AltitudeRef  *byte
	Altitude     *[2]uint32
}

// Fields selects the tags written to IFD0. Zero values are omitted.
type Fields struct {
	Make        string
	Model       string
	Orientation uint16
	GPS         *GPS
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// TIFF encodes f as a TIFF stream that exif.Decode accepts directly.
func TIFF(f Fields) []byte {
	var ifd0 []entry
	if f.Make != "" {
		ifd0 = append(ifd0, ascii(0x010F, f.Make))
	}
	if f.Model != "" {
		ifd0 = append(ifd0, ascii(0x0110, f.Model))
	}
	if f.Orientation != 0 {
		ifd0 = append(ifd0, entry{0x0112, typeShort, 1, le16(f.Orientation)})
	}

	var gpsIFD []entry
	if g := f.GPS; g != nil {
		if g.LatitudeRef != "" {
			gpsIFD = append(gpsIFD, ascii(0x0001, g.LatitudeRef))
		}
		if len(g.Latitude) > 0 {
			gpsIFD = append(gpsIFD, rationals(0x0002, g.Latitude...))
		}
		if g.LongitudeRef != "" {
			gpsIFD = append(gpsIFD, ascii(0x0003, g.LongitudeRef))
		}
		if len(g.Longitude) > 0 {
			gpsIFD = append(gpsIFD, rationals(0x0004, g.Longitude...))
		}
		if g.AltitudeRef != nil {
			gpsIFD = append(gpsIFD, entry{0x0005, typeByte, 1, []byte{*g.AltitudeRef}})
		}
		if g.Altitude != nil {
			gpsIFD = append(gpsIFD, rationals(0x0006, *g.Altitude))
		}
		ifd0 = append(ifd0, entry{0x8825, typeLong, 1, nil})
	}

	const ifd0Offset = 8
	gpsOffset := ifd0Offset + ifdSize(ifd0)
	dataOffset := gpsOffset
	if len(gpsIFD) > 0 {
		dataOffset += ifdSize(gpsIFD)
		ifd0[len(ifd0)-1].data = le32(uint32(gpsOffset))
	}

	var buf, data bytes.Buffer
	buf.WriteString("II")
	buf.Write(le16(42))
	buf.Write(le32(ifd0Offset))
	writeIFD(&buf, &data, ifd0, dataOffset)
	if len(gpsIFD) > 0 {
		writeIFD(&buf, &data, gpsIFD, dataOffset)
	}
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func ifdSize(entries []entry) int {
	return 2 + 12*len(entries) + 4
}

func writeIFD(buf, data *bytes.Buffer, entries []entry, dataOffset int) {
	buf.Write(le16(uint16(len(entries))))
	for _, e := range entries {
		buf.Write(le16(e.tag))
		buf.Write(le16(e.typ))
		buf.Write(le32(e.count))
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			buf.Write(v)
			continue
		}
		buf.Write(le32(uint32(dataOffset + data.Len())))
		data.Write(e.data)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	buf.Write(le32(0))
}

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag, typeASCII, uint32(len(b)), b}
}

func rationals(tag uint16, vals ...[2]uint32) entry {
	var b []byte
	for _, v := range vals {
		b = append(b, le32(v[0])...)
		b = append(b, le32(v[1])...)
	}
	return entry{tag, typeRational, uint32(len(vals)), b}
}

func le16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}
