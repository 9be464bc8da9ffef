// internal/rational/rational.go
package rational

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxDenominator bounds the search in MinimalDenominator. It has been
// checked empirically to recover 1/x exactly for 0 < x <= 1,000,000.
const DefaultMaxDenominator = 500

// MaxRoundingDigits is the largest digit count Bounded honours; 10^18 is the
// last power of ten inside int64.
const MaxRoundingDigits = 18

// ErrMalformed is returned by Parse for text that is not "num/den".
var ErrMalformed = errors.New("malformed rational")

// Rational is an exact fraction as stored in EXIF rational tags.
// A zero denominator marks an absent or invalid value.
type Rational struct {
	Num int64
	Den int64
}

// New returns num/den without reducing it.
func New(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

// IsValid reports whether the denominator is non-zero.
func (r Rational) IsValid() bool {
	return r.Den != 0
}

// IsZero reports whether r is the degenerate 0/0 pair.
func (r Rational) IsZero() bool {
	return r.Num == 0 && r.Den == 0
}

// IsIntegral reports whether r is a whole number written over 1.
func (r Rational) IsIntegral() bool {
	return r.Den == 1
}

// Float64 returns the value of r, or NaN when the denominator is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return math.NaN()
	}
	return float64(r.Num) / float64(r.Den)
}

// String formats r the way EXIF tag dumps and XMP do, e.g. "1234/100".
func (r Rational) String() string {
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

// Parse reads "num/den". A bare integer is accepted as num/1.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, found := strings.Cut(s, "/")
	if !found {
		denStr = "1"
	}
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Rational{Num: num, Den: den}, nil
}

// Bounded converts value to a fraction with denominator 10^roundingDigits and
// reduces it. The reduction first collapses exact integers to n/1 and then
// halves numerator and denominator while both are even: 0.1234 with four
// digits becomes 617/5000 and 25.5 becomes 31875/1250. roundingDigits is
// clamped to 0..MaxRoundingDigits.
func Bounded(value float64, roundingDigits int) Rational {
	roundingDigits = max(0, min(roundingDigits, MaxRoundingDigits))
	whole := math.Trunc(value)
	rounder := math.Pow(10, float64(roundingDigits))
	fractional := math.Round((value - whole) * rounder)

	num := int64(whole*rounder + fractional)
	den := int64(rounder)

	if num%den == 0 {
		num /= den
		den = 1
	}
	for num%2 == 0 && den%2 == 0 {
		num /= 2
		den /= 2
	}
	return Rational{Num: num, Den: den}
}

// MinimalDenominator finds the fraction with the smallest denominator that
// represents value, searching DefaultMaxDenominator candidate numerators for
// the fractional part.
func MinimalDenominator(value float64) Rational {
	return MinimalDenominatorWithin(value, DefaultMaxDenominator)
}

// MinimalDenominatorWithin is MinimalDenominator with an explicit search
// bound. For each candidate numerator n of the fractional part f it takes the
// nearest denominator round(n/f) and keeps the pair with the least error,
// stopping once the error is within 2*f*epsilon. If the denominator, or the
// numerator after adding the whole part back, would leave the int32 range it
// falls back to Bounded with five digits.
func MinimalDenominatorWithin(value float64, maxDenominator int) Rational {
	sign := int64(1)
	abs := value
	if value < 0 {
		sign = -1
		abs = -value
	}

	whole := math.Trunc(abs)
	fractional := abs - whole
	if fractional == 0 {
		return Rational{Num: sign * int64(whole), Den: 1}
	}

	var bestNum, bestDen int64 = 0, 1
	leastErr := fractional
	criterion := 2 * fractional * epsilon

	for n := int64(1); n < int64(maxDenominator); n++ {
		approx := int64(float64(n)/fractional + 0.5)
		if approx <= 0 {
			continue
		}
		err := math.Abs(float64(n)/float64(approx) - fractional)
		if err < leastErr {
			bestNum = n
			bestDen = approx
			leastErr = err
			if leastErr <= criterion {
				break
			}
		}
	}

	if bestDen > math.MaxInt32 || float64(bestDen)*whole+float64(bestNum) > math.MaxInt32 {
		return Bounded(value, 5)
	}
	return Rational{Num: sign * (bestDen*int64(whole) + bestNum), Den: bestDen}
}

// epsilon is the IEEE 754 double machine epsilon.
const epsilon = 2.220446049250313e-16
