package gps

import "errors"

// Conversion errors. Callers match them with errors.Is.
var (
	ErrInvalidFormat    = errors.New("invalid GPS coordinate format")
	ErrOutOfRange       = errors.New("GPS coordinate out of range")
	ErrZeroDenominator  = errors.New("zero denominator in GPS rational")
	ErrInvalidReference = errors.New("invalid GPS direction reference")
)
