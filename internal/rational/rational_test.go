package rational

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounded(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		digits int
		want   Rational
	}{
		{"integer collapses to n/1", 42, 4, Rational{42, 1}},
		{"zero", 0, 4, Rational{0, 1}},
		{"fraction halved while even", 0.1234, 4, Rational{617, 5000}},
		{"halving stops at odd numerator", 25.5, 4, Rational{31875, 1250}},
		{"negative", -25.5, 4, Rational{-31875, 1250}},
		{"rounded to digits", 1.23456789, 2, Rational{123, 100}},
		{"no digits", 7.6, 0, Rational{8, 1}},
		{"altitude", 123.45, 4, Rational{308625, 2500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bounded(tt.value, tt.digits))
		})
	}
}

func TestBoundedPrecision(t *testing.T) {
	for _, v := range []float64{0.00001, 12.34567, 359.99999, -179.12345} {
		r := Bounded(v, 5)
		require.True(t, r.IsValid())
		assert.InDelta(t, v, r.Float64(), 1e-5, "value %v", v)
	}
}

func TestBoundedClampsDigits(t *testing.T) {
	assert.Equal(t, Rational{2, 1}, Bounded(1.5, -1))
	assert.Equal(t, Bounded(1.5, 0), Bounded(1.5, -100))

	r := Bounded(1.5, 40)
	require.True(t, r.IsValid())
	assert.Equal(t, Bounded(1.5, MaxRoundingDigits), r)
	assert.InDelta(t, 1.5, r.Float64(), 1e-12)
}

func TestMinimalDenominator(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Rational
	}{
		{"reciprocal", 1.0 / 4786.0, Rational{1, 4786}},
		{"half", 0.5, Rational{1, 2}},
		{"whole number", 3, Rational{3, 1}},
		{"mixed", 1.25, Rational{5, 4}},
		{"third", 1.0 / 3.0, Rational{1, 3}},
		{"negative", -2.5, Rational{-5, 2}},
		{"shutter", 1.0 / 250.0, Rational{1, 250}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinimalDenominator(tt.value))
		})
	}
}

func TestMinimalDenominatorReciprocals(t *testing.T) {
	for _, x := range []int64{2, 7, 49, 59, 86, 1000, 65537, 999983, 1000000} {
		got := MinimalDenominator(1.0 / float64(x))
		assert.Equal(t, Rational{1, x}, got, "1/%d", x)
	}
}

func TestMinimalDenominatorOverflowFallsBack(t *testing.T) {
	v := 3e9 + 0.5
	got := MinimalDenominator(v)
	assert.Equal(t, Bounded(v, 5), got)
	assert.InDelta(t, v, got.Float64(), 1e-4)
}

func TestMinimalDenominatorTinyFractionFallsBack(t *testing.T) {
	got := MinimalDenominator(1e-12)
	assert.Equal(t, Bounded(1e-12, 5), got)
	assert.LessOrEqual(t, got.Den, int64(math.MaxInt32))
}

func TestMinimalDenominatorWithinBound(t *testing.T) {
	// 0.1234 = 617/5000 needs numerator 617, beyond a bound of 10.
	got := MinimalDenominatorWithin(0.1234, 10)
	assert.Less(t, got.Num, int64(10))
	assert.InDelta(t, 0.1234, got.Float64(), 1e-2)

	assert.Equal(t, Rational{617, 5000}, MinimalDenominatorWithin(0.1234, 1000))
}

func TestParse(t *testing.T) {
	r, err := Parse("1234/10")
	require.NoError(t, err)
	assert.Equal(t, Rational{1234, 10}, r)
	assert.Equal(t, "1234/10", r.String())

	r, err = Parse(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, Rational{7, 1}, r)

	_, err = Parse("a/b")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFloat64(t *testing.T) {
	assert.Equal(t, 2.5, New(5, 2).Float64())
	assert.True(t, math.IsNaN(New(1, 0).Float64()))
	assert.True(t, New(0, 0).IsZero())
	assert.False(t, New(0, 0).IsValid())
	assert.True(t, New(3, 1).IsIntegral())
}
