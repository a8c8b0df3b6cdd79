package domain

import (
	"strings"
	"testing"
)

func TestPriorityReturnsCopy(t *testing.T) {
	t.Parallel()

	first := Priority()
	first[0] = PurposeGeneral
	first[4] = PurposeTool

	second := Priority()
	if second[0] != PurposeTool || second[4] != PurposeGeneral {
		t.Fatalf("priority order changed through a returned slice: %v", second)
	}
	if PurposeTool.Rank() != 0 || PurposeGeneral.Rank() != 4 {
		t.Fatalf("unexpected ranks: tool=%d general=%d", PurposeTool.Rank(), PurposeGeneral.Rank())
	}
}

func TestRankFollowsPriority(t *testing.T) {
	t.Parallel()

	for i, p := range Priority() {
		if p.Rank() != i {
			t.Fatalf("%s: expected rank %d, got %d", p, i, p.Rank())
		}
	}
	if got := Purpose("podcast").Rank(); got != len(Priority()) {
		t.Fatalf("unknown purpose should rank last, got %d", got)
	}
}

func TestParsePurpose(t *testing.T) {
	t.Parallel()

	if p, ok := ParsePurpose("  Event "); !ok || p != PurposeEvent {
		t.Fatalf("expected event, got %q %v", p, ok)
	}
	if _, ok := ParsePurpose("webinar"); ok {
		t.Fatalf("unknown type tags must not parse")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: []string{"id", "title"}}
	if msg := err.Error(); !strings.Contains(msg, "<unknown>") || !strings.Contains(msg, "id, title") {
		t.Fatalf("unexpected message: %s", msg)
	}
}
