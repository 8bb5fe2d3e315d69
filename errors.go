package networth

import "errors"

var (
	// ErrConfiguration reports a missing or unreadable Transaction Store or an invalid setting.
	// It is fatal: no partial result is ever computed.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataUnavailable reports that a required input could not be obtained.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMalformedInput reports a transaction record that fails basic validity.
	// A single malformed record aborts the whole computation.
	ErrMalformedInput = errors.New("malformed input")
)
