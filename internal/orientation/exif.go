package orientation

import "fmt"

// ExifOrientation is the value of the EXIF/TIFF Orientation tag.
type ExifOrientation int

const (
	Unspecified ExifOrientation = iota
	Normal
	HFlip
	Rot180
	VFlip
	Rot90HFlip
	Rot90
	Rot90VFlip
	Rot270
)

var exifNames = [...]string{
	Unspecified: "unspecified",
	Normal:      "normal",
	HFlip:       "flip horizontal",
	Rot180:      "rotate 180",
	VFlip:       "flip vertical",
	Rot90HFlip:  "rotate 90 + flip horizontal",
	Rot90:       "rotate 90",
	Rot90VFlip:  "rotate 90 + flip vertical",
	Rot270:      "rotate 270",
}

// Valid reports whether v is within 0..8.
func (v ExifOrientation) Valid() bool {
	return v >= Unspecified && v <= Rot270
}

func (v ExifOrientation) String() string {
	if !v.Valid() {
		return fmt.Sprintf("ExifOrientation(%d)", int(v))
	}
	return exifNames[v]
}
