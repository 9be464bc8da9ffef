// Package orientation models the eight lossless orientations of an image as
// 2x2 integer matrices.
//
// A Matrix is one of the eight signed permutation matrices: the identity,
// three rotations, two flips and the two rotate-then-flip compositions.
// Composition keeps a Matrix inside that set, so the result can always be
// written back as an EXIF Orientation value or replayed as at most two
// primitive Actions.
//
// The usual flow is to start from the orientation stored in the file and
// apply the user's request on top of it:
//
//	m := orientation.FromExif(stored)
//	m.Compose(orientation.FromAction(orientation.Rotate90Action))
//	newValue := m.Exif()
package orientation

import "fmt"

// Matrix is an orientation transform. The zero value is Identity.
type Matrix struct {
	// delta is the offset from the identity matrix.
	delta [2][2]int8
}

func fromRows(r [2][2]int8) Matrix {
	return Matrix{delta: [2][2]int8{{r[0][0] - 1, r[0][1]}, {r[1][0], r[1][1] - 1}}}
}

func (m Matrix) rows() [2][2]int8 {
	return [2][2]int8{{m.delta[0][0] + 1, m.delta[0][1]}, {m.delta[1][0], m.delta[1][1] + 1}}
}

// The eight canonical orientations.
var (
	Identity               = fromRows([2][2]int8{{1, 0}, {0, 1}})
	Rotate90               = fromRows([2][2]int8{{0, 1}, {-1, 0}})
	Rotate180              = fromRows([2][2]int8{{-1, 0}, {0, -1}})
	Rotate270              = fromRows([2][2]int8{{0, -1}, {1, 0}})
	FlipHorizontal         = fromRows([2][2]int8{{-1, 0}, {0, 1}})
	FlipVertical           = fromRows([2][2]int8{{1, 0}, {0, -1}})
	Rotate90FlipHorizontal = fromRows([2][2]int8{{0, -1}, {-1, 0}})
	Rotate90FlipVertical   = fromRows([2][2]int8{{0, 1}, {1, 0}})
)

// canonical lists every orientation with its EXIF value and the actions that
// reproduce it. Rotation comes before the flip.
var canonical = []struct {
	matrix  Matrix
	exif    ExifOrientation
	actions []Action
	name    string
}{
	{Identity, Normal, nil, "identity"},
	{Rotate90, Rot90, []Action{Rotate90Action}, "rotate90"},
	{Rotate180, Rot180, []Action{Rotate180Action}, "rotate180"},
	{Rotate270, Rot270, []Action{Rotate270Action}, "rotate270"},
	{FlipHorizontal, HFlip, []Action{FlipHorizontalAction}, "fliph"},
	{FlipVertical, VFlip, []Action{FlipVerticalAction}, "flipv"},
	{Rotate90FlipHorizontal, Rot90HFlip, []Action{Rotate90Action, FlipHorizontalAction}, "rotate90+fliph"},
	{Rotate90FlipVertical, Rot90VFlip, []Action{Rotate90Action, FlipVerticalAction}, "rotate90+flipv"},
}

// Canonical returns the eight valid orientations.
func Canonical() []Matrix {
	out := make([]Matrix, len(canonical))
	for i, c := range canonical {
		out[i] = c.matrix
	}
	return out
}

// FromAction returns the orientation produced by a single primitive action.
// Unknown actions map to Identity.
func FromAction(a Action) Matrix {
	switch a {
	case FlipHorizontalAction:
		return FlipHorizontal
	case FlipVerticalAction:
		return FlipVertical
	case Rotate90Action:
		return Rotate90
	case Rotate180Action:
		return Rotate180
	case Rotate270Action:
		return Rotate270
	default:
		return Identity
	}
}

// FromExif returns the orientation for an EXIF Orientation value. Both
// Unspecified and Normal give Identity, as do values outside 0..8.
func FromExif(v ExifOrientation) Matrix {
	for _, c := range canonical {
		if c.exif == v {
			return c.matrix
		}
	}
	return Identity
}

// FromActions composes the actions in order, starting from Identity.
func FromActions(actions ...Action) Matrix {
	m := Identity
	for _, a := range actions {
		m.Compose(FromAction(a))
	}
	return m
}

// Compose applies other after m, replacing m with other × m.
func (m *Matrix) Compose(other Matrix) {
	*m = m.Then(other)
}

// Then returns the orientation of applying m first and other second.
func (m Matrix) Then(other Matrix) Matrix {
	a, b := other.rows(), m.rows()
	var out [2][2]int8
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j]
		}
	}
	return fromRows(out)
}

// Equal reports whether m and o are the same matrix.
func (m Matrix) Equal(o Matrix) bool {
	return m.delta == o.delta
}

// IsCanonical reports whether m is one of the eight orientations.
func (m Matrix) IsCanonical() bool {
	return m.lookup() >= 0
}

// Actions decomposes m into the primitive actions that reproduce it, in the
// order they must be applied. Non-canonical matrices yield nil.
func (m Matrix) Actions() []Action {
	i := m.lookup()
	if i < 0 || len(canonical[i].actions) == 0 {
		return nil
	}
	return append([]Action(nil), canonical[i].actions...)
}

// Exif returns the EXIF Orientation value for m, or Unspecified when m is
// not canonical.
func (m Matrix) Exif() ExifOrientation {
	i := m.lookup()
	if i < 0 {
		return Unspecified
	}
	return canonical[i].exif
}

// SwapsDimensions reports whether m exchanges width and height.
func (m Matrix) SwapsDimensions() bool {
	return m.rows()[0][0] == 0
}

func (m Matrix) String() string {
	if i := m.lookup(); i >= 0 {
		return canonical[i].name
	}
	r := m.rows()
	return fmt.Sprintf("[[%d %d] [%d %d]]", r[0][0], r[0][1], r[1][0], r[1][1])
}

func (m Matrix) lookup() int {
	for i, c := range canonical {
		if c.matrix.delta == m.delta {
			return i
		}
	}
	return -1
}
