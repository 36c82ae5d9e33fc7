package blob

import "errors"

// Validation failures wrap one of these sentinels so callers can match with
// errors.Is; the wrapped message carries the expected and actual values.
var (
	ErrTruncatedHeader   = errors.New("truncated header")
	ErrVersionMismatch   = errors.New("version mismatch")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrCheckBytes        = errors.New("invalid header check bytes")
	ErrTruncatedChunk    = errors.New("truncated chunk")
	ErrUnknownSignature  = errors.New("unknown signature")
	ErrDataTooSmall      = errors.New("data too small")
)
