package usecase

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"ContentRanker/internal/domain"
)

// BuildRelatedMessage renders a related-items result as plain text.
func BuildRelatedMessage(result RelatedResult, explain bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Related to %s (%s, %s)\n", result.Focal.Title, result.Focal.ID, result.Focal.PrimaryPurpose)
	if len(result.Items) == 0 {
		b.WriteString("  no related items\n")
		return b.String()
	}

	for i, item := range result.Items {
		fmt.Fprintf(&b, "%d. %s\n   id: %s  purpose: %s  score: %g\n",
			i+1,
			item.Record.Title,
			item.Record.ID,
			item.Record.PrimaryPurpose,
			item.Score)
		if explain {
			fmt.Fprintf(&b, "   themes: %g  topics: %g  type: %g  audience: %g  recency: %g\n",
				item.Breakdown.Themes,
				item.Breakdown.Topics,
				item.Breakdown.TypeMatch,
				item.Breakdown.Audience,
				item.Breakdown.Recency)
		}
	}
	return b.String()
}

// BuildRecordMessage renders one enhanced record with its classification.
func BuildRecordMessage(record domain.EnhancedRecord) string {
	secondary := make([]string, 0, len(record.SecondaryPurposes))
	for _, p := range record.SecondaryPurposes {
		secondary = append(secondary, string(p))
	}
	line := fmt.Sprintf("%s\t%s\t%.2f\t%s\t%s",
		record.ID,
		record.PrimaryPurpose,
		record.PurposeRelevance,
		strings.Join(secondary, ","),
		record.Title)

	switch d := record.Details.(type) {
	case domain.ToolDetails:
		if d.ToolType != "" {
			line += "\ttoolType=" + d.ToolType
		}
	case domain.UpdateDetails:
		if d.UpdateType != "" {
			line += "\tupdateType=" + d.UpdateType
		}
	}
	return line
}

// BuildListMessage renders a table of enhanced records.
func BuildListMessage(records []domain.EnhancedRecord) string {
	var b strings.Builder
	b.WriteString("ID\tPURPOSE\tCONFIDENCE\tSECONDARY\tTITLE\n")
	for _, r := range records {
		b.WriteString(BuildRecordMessage(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// BuildJSON encodes any result for machine consumers.
func BuildJSON(v any) ([]byte, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return payload, nil
}
