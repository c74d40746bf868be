package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	ErrInvalidAnalysisID = errors.New("invalid analysis ID")
	ErrUnknownKind       = errors.New("unknown analysis kind")
)

// IsInvalidInput reports whether err was caused by malformed identifiers or
// kinds supplied by a caller
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidAnalysisID) || errors.Is(err, ErrUnknownKind)
}
