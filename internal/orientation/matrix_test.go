package orientation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionIsClosed(t *testing.T) {
	for _, a := range Canonical() {
		for _, b := range Canonical() {
			got := a.Then(b)
			assert.True(t, got.IsCanonical(), "%v then %v = %v", a, b, got)
		}
	}
}

func TestIdentityLaw(t *testing.T) {
	for _, m := range Canonical() {
		assert.True(t, Identity.Then(m).Equal(m), "identity then %v", m)
		assert.True(t, m.Then(Identity).Equal(m), "%v then identity", m)
	}
}

func TestDecomposeRecompose(t *testing.T) {
	for _, m := range Canonical() {
		actions := m.Actions()
		require.LessOrEqual(t, len(actions), 2)

		got := FromActions(actions...)
		assert.True(t, got.Equal(m), "%v decomposed to %v rebuilt as %v", m, actions, got)
	}
}

func TestExifRoundTrip(t *testing.T) {
	for v := Normal; v <= Rot270; v++ {
		assert.Equal(t, v, FromExif(v).Exif(), "value %d", v)
	}
}

func TestFromExifUnspecified(t *testing.T) {
	assert.True(t, FromExif(Unspecified).Equal(Identity))
	assert.True(t, FromExif(ExifOrientation(42)).Equal(Identity))
}

func TestRotateThenFlipOrder(t *testing.T) {
	m := Rotate90
	m.Compose(FlipHorizontal)

	assert.True(t, m.Equal(Rotate90FlipHorizontal))
	if diff := cmp.Diff([]Action{Rotate90Action, FlipHorizontalAction}, m.Actions()); diff != "" {
		t.Errorf("Actions() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Rot90HFlip, m.Exif())
}

func TestComposition(t *testing.T) {
	tests := []struct {
		name  string
		first Matrix
		then  Matrix
		want  Matrix
	}{
		{"two quarter turns", Rotate90, Rotate90, Rotate180},
		{"three quarter turns", Rotate180, Rotate90, Rotate270},
		{"full turn", Rotate270, Rotate90, Identity},
		{"two flips", FlipHorizontal, FlipVertical, Rotate180},
		{"flip undone", FlipVertical, FlipVertical, Identity},
		{"rotate then flip vertical", Rotate90, FlipVertical, Rotate90FlipVertical},
		{"flip then rotate", FlipHorizontal, Rotate90, Rotate90FlipVertical},
		{"transpose is an involution", Rotate90FlipHorizontal, Rotate90FlipHorizontal, Identity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.first.Then(tt.then)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestRotationIsNotSelfInverse(t *testing.T) {
	assert.False(t, Rotate90.Then(Rotate90).Equal(Identity))
}

func TestComposeMutatesReceiverOnly(t *testing.T) {
	base := FromExif(Rot90)
	m := base
	m.Compose(FromAction(Rotate90Action))

	assert.True(t, base.Equal(Rotate90))
	assert.Equal(t, Rot180, m.Exif())
}

func TestActions(t *testing.T) {
	tests := []struct {
		m    Matrix
		want []Action
	}{
		{Rotate90, []Action{Rotate90Action}},
		{Rotate180, []Action{Rotate180Action}},
		{Rotate270, []Action{Rotate270Action}},
		{FlipHorizontal, []Action{FlipHorizontalAction}},
		{FlipVertical, []Action{FlipVerticalAction}},
		{Rotate90FlipHorizontal, []Action{Rotate90Action, FlipHorizontalAction}},
		{Rotate90FlipVertical, []Action{Rotate90Action, FlipVerticalAction}},
	}

	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.m.Actions()); diff != "" {
				t.Errorf("Actions() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.Empty(t, Identity.Actions())
}

func TestActionsDoNotAlias(t *testing.T) {
	a := Rotate90FlipHorizontal.Actions()
	a[0] = Rotate270Action
	assert.Equal(t, Rotate90Action, Rotate90FlipHorizontal.Actions()[0])
}

func TestNonCanonical(t *testing.T) {
	shear := fromRows([2][2]int8{{1, 1}, {0, 1}})

	assert.False(t, shear.IsCanonical())
	assert.Empty(t, shear.Actions())
	assert.Equal(t, Unspecified, shear.Exif())
	assert.Equal(t, "[[1 1] [0 1]]", shear.String())

}

func TestZeroValueIsIdentity(t *testing.T) {
	var m Matrix
	assert.True(t, m.Equal(Identity))
	assert.True(t, m.IsCanonical())
	assert.Equal(t, Normal, m.Exif())
	assert.Equal(t, "identity", m.String())

	m.Compose(Rotate90)
	assert.True(t, m.Equal(Rotate90))
	assert.Equal(t, Rot90, m.Exif())
}

func TestFromAction(t *testing.T) {
	assert.True(t, FromAction(NoTransformation).Equal(Identity))
	assert.True(t, FromAction(Action(99)).Equal(Identity))
	assert.True(t, FromAction(FlipVerticalAction).Equal(FlipVertical))
}

func TestSwapsDimensions(t *testing.T) {
	assert.True(t, Rotate90.SwapsDimensions())
	assert.True(t, Rotate90FlipVertical.SwapsDimensions())
	assert.False(t, Rotate180.SwapsDimensions())
	assert.False(t, FlipHorizontal.SwapsDimensions())
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"rotate90", Rotate90Action},
		{" Rotate270 ", Rotate270Action},
		{"ccw", Rotate270Action},
		{"hflip", FlipHorizontalAction},
		{"flipv", FlipVerticalAction},
		{"180", Rotate180Action},
		{"none", NoTransformation},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAction("spin")
	assert.Error(t, err)
}

func TestExifOrientationString(t *testing.T) {
	assert.Equal(t, "rotate 90", Rot90.String())
	assert.Equal(t, "ExifOrientation(9)", ExifOrientation(9).String())
	assert.False(t, ExifOrientation(-1).Valid())
	assert.Equal(t, "rotate90", Rotate90Action.String())
}
