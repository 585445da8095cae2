package shared

import "errors"

var (
	// ErrMalformedInput indicates bar input that is not strictly increasing in
	// time or mixes instruments. It is fatal to the affected session only.
	ErrMalformedInput = errors.New("malformed bar input")

	// ErrEmptySession indicates no bars fell within a session window. The
	// session is skipped and recorded as a diagnostic.
	ErrEmptySession = errors.New("empty session window")

	// ErrConfiguration indicates an invalid parameter combination. It is fatal
	// before any session is processed.
	ErrConfiguration = errors.New("invalid configuration")
)
