package qc

import "errors"

var (
	// ErrMalformedRecord is returned when a record is truncated, when
	// sequence and quality lengths disagree, or when a quality byte falls
	// outside the representable range after offset subtraction.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrConfig is returned for malformed limits, adapter or contaminant
	// input, and for out-of-range options.
	ErrConfig = errors.New("invalid configuration")
)
