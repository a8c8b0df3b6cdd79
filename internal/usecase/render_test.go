package usecase

import (
	"strings"
	"testing"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/relevance"
)

func enhanced(id, title string, purpose domain.Purpose, details domain.Details) domain.EnhancedRecord {
	return domain.EnhancedRecord{
		ContentRecord:     domain.ContentRecord{ID: id, Title: title},
		PrimaryPurpose:    purpose,
		SecondaryPurposes: []domain.Purpose{},
		PurposeRelevance:  0.5,
		Details:           details,
	}
}

func TestBuildRelatedMessage(t *testing.T) {
	t.Parallel()

	result := RelatedResult{
		Focal: enhanced("U1", "January newsletter", domain.PurposeUpdate, nil),
		Items: []RelatedItem{{
			Scored: relevance.Scored{
				Record: enhanced("A", "February newsletter", domain.PurposeUpdate, nil),
				Score:  25,
			},
			Breakdown: relevance.Breakdown{Themes: 10, TypeMatch: 10, Recency: 5},
		}},
	}

	plain := BuildRelatedMessage(result, false)
	if !strings.Contains(plain, "Related to January newsletter (U1, update)") {
		t.Fatalf("missing header: %s", plain)
	}
	if !strings.Contains(plain, "1. February newsletter") || !strings.Contains(plain, "score: 25") {
		t.Fatalf("missing item line: %s", plain)
	}
	if strings.Contains(plain, "recency:") {
		t.Fatalf("breakdown must be hidden without explain: %s", plain)
	}

	explained := BuildRelatedMessage(result, true)
	if !strings.Contains(explained, "themes: 10  topics: 0  type: 10  audience: 0  recency: 5") {
		t.Fatalf("missing breakdown: %s", explained)
	}

	empty := BuildRelatedMessage(RelatedResult{Focal: result.Focal}, false)
	if !strings.Contains(empty, "no related items") {
		t.Fatalf("expected empty marker: %s", empty)
	}
}

func TestBuildListMessage(t *testing.T) {
	t.Parallel()

	tool := enhanced("K1", "Worksheet", domain.PurposeTool, domain.ToolDetails{ToolType: "worksheet"})
	tool.SecondaryPurposes = []domain.Purpose{domain.PurposeEvent, domain.PurposeStory}

	out := BuildListMessage([]domain.EnhancedRecord{tool, enhanced("G", "About", domain.PurposeGeneral, nil)})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if lines[1] != "K1\ttool\t0.50\tevent,story\tWorksheet\ttoolType=worksheet" {
		t.Fatalf("unexpected tool row: %q", lines[1])
	}
	if lines[2] != "G\tgeneral\t0.50\t\tAbout" {
		t.Fatalf("unexpected general row: %q", lines[2])
	}
}

func TestBuildJSON(t *testing.T) {
	t.Parallel()

	payload, err := BuildJSON(enhanced("U1", "Newsletter", domain.PurposeUpdate, domain.UpdateDetails{UpdateType: "newsletter", Highlights: []string{}}))
	if err != nil {
		t.Fatalf("BuildJSON returned error: %v", err)
	}
	body := string(payload)
	for _, want := range []string{`"id": "U1"`, `"primaryPurpose": "update"`, `"updateType": "newsletter"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}
