package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// AnalysisID identifies an analysis held by the external analysis service.
// Its format is owned by that service.
type AnalysisID string

func (id AnalysisID) String() string { return string(id) }

// ParseAnalysisID validates an analysis ID taken from a URL or form.
// IDs are used as URL path segments, so separators are rejected.
func ParseAnalysisID(s string) (AnalysisID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidAnalysisID)
	}
	if strings.ContainsAny(s, "/?#\\") || s == "." || s == ".." {
		return "", fmt.Errorf("%w: %q contains invalid characters", ErrInvalidAnalysisID, s)
	}
	return AnalysisID(s), nil
}
