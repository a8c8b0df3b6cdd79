package domain

import (
	"fmt"
	"strings"
)

// Purpose is one label from the closed set of purpose categories.
type Purpose string

const (
	PurposeTool    Purpose = "tool"
	PurposeUpdate  Purpose = "update"
	PurposeStory   Purpose = "story"
	PurposeEvent   Purpose = "event"
	PurposeGeneral Purpose = "general"
)

var purposePriority = [...]Purpose{
	PurposeTool,
	PurposeUpdate,
	PurposeEvent,
	PurposeStory,
	PurposeGeneral,
}

// Priority returns the fixed order used to break classification ties and to
// order secondary purposes. Earlier wins. The slice is a fresh copy.
func Priority() []Purpose {
	out := make([]Purpose, len(purposePriority))
	copy(out, purposePriority[:])
	return out
}

// Valid reports whether p belongs to the closed set.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeTool, PurposeUpdate, PurposeStory, PurposeEvent, PurposeGeneral:
		return true
	default:
		return false
	}
}

// Rank returns the position of p in Priority, or len(Priority()) if unknown.
func (p Purpose) Rank() int {
	for i, candidate := range purposePriority {
		if candidate == p {
			return i
		}
	}
	return len(purposePriority)
}

// ParsePurpose maps a free-form type tag onto a purpose category.
func ParsePurpose(value string) (Purpose, bool) {
	p := Purpose(strings.ToLower(strings.TrimSpace(value)))
	return p, p.Valid()
}

// Classification is the outcome of classifying one record.
type Classification struct {
	Primary    Purpose
	Secondary  []Purpose
	Confidence float64
}

// ValidationError reports required fields missing from a ContentRecord.
type ValidationError struct {
	RecordID string
	Fields   []string
}

func (e *ValidationError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("content record %s: missing required field(s): %s", id, strings.Join(e.Fields, ", "))
}
