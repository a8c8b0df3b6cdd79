package enhance

import (
	"context"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/worker"
)

// Classifier assigns purpose categories to a raw record.
type Classifier interface {
	Classify(record domain.ContentRecord) (domain.Classification, error)
}

// Enhancer attaches purpose fields to content records without touching its input.
type Enhancer struct {
	classifier Classifier
}

// New wires the classifier used for every record.
func New(classifier Classifier) *Enhancer {
	return &Enhancer{classifier: classifier}
}

// EnhanceOne classifies record and returns a new EnhancedRecord. Validation
// errors from the classifier are returned as-is.
func (e *Enhancer) EnhanceOne(record domain.ContentRecord) (domain.EnhancedRecord, error) {
	cls, err := e.classifier.Classify(record)
	if err != nil {
		return domain.EnhancedRecord{}, err
	}

	secondary := make([]domain.Purpose, 0, len(cls.Secondary))
	for _, p := range cls.Secondary {
		if p != cls.Primary {
			secondary = append(secondary, p)
		}
	}

	out := domain.EnhancedRecord{
		ContentRecord:     record.Clone(),
		PrimaryPurpose:    cls.Primary,
		SecondaryPurposes: secondary,
		PurposeRelevance:  cls.Confidence,
	}
	out.Details = detailsFor(out.PrimaryPurpose, secondary, record.Hints)
	return out, nil
}

// EnhanceMany enhances records in order and stops at the first error.
func (e *Enhancer) EnhanceMany(records []domain.ContentRecord) ([]domain.EnhancedRecord, error) {
	out := make([]domain.EnhancedRecord, 0, len(records))
	for _, record := range records {
		enhanced, err := e.EnhanceOne(record)
		if err != nil {
			return nil, err
		}
		out = append(out, enhanced)
	}
	return out, nil
}

// EnhanceConcurrent produces the same result as EnhanceMany using up to
// workers goroutines.
func (e *Enhancer) EnhanceConcurrent(ctx context.Context, records []domain.ContentRecord, workers int) ([]domain.EnhancedRecord, error) {
	return worker.Map(ctx, records, func(_ context.Context, record domain.ContentRecord) (domain.EnhancedRecord, error) {
		return e.EnhanceOne(record)
	}, worker.Options{Workers: workers})
}

// detailsFor picks the payload of the primary purpose, or of the first
// secondary purpose that has one when the primary is general.
func detailsFor(primary domain.Purpose, secondary []domain.Purpose, hints domain.Hints) domain.Details {
	if d := buildDetails(primary, hints); d != nil {
		return d
	}
	if primary != domain.PurposeGeneral {
		return nil
	}
	for _, p := range secondary {
		if d := buildDetails(p, hints); d != nil {
			return d
		}
	}
	return nil
}

func buildDetails(purpose domain.Purpose, hints domain.Hints) domain.Details {
	switch purpose {
	case domain.PurposeTool:
		d := domain.ToolDetails{TargetAudience: []string{}, Prerequisites: []string{}}
		if h := hints.Tool; h != nil {
			d.ToolType = h.ToolType
			d.TargetAudience = copyOrEmpty(h.TargetAudience)
			d.ImplementationContext = h.ImplementationContext
			d.Prerequisites = copyOrEmpty(h.Prerequisites)
		}
		return d
	case domain.PurposeUpdate:
		d := domain.UpdateDetails{Highlights: []string{}}
		if h := hints.Update; h != nil {
			d.UpdateType = h.UpdateType
			d.Publisher = h.Publisher
			d.Highlights = copyOrEmpty(h.Highlights)
			d.CallToAction = h.CallToAction
		}
		return d
	case domain.PurposeStory:
		var d domain.StoryDetails
		if h := hints.Story; h != nil {
			d.Storyteller = h.Storyteller
			d.Location = h.Location
		}
		return d
	case domain.PurposeEvent:
		var d domain.EventDetails
		if h := hints.Event; h != nil {
			d.StartsAt = h.StartsAt
			d.Venue = h.Venue
			d.RegistrationURL = h.RegistrationURL
		}
		return d
	default:
		return nil
	}
}

func copyOrEmpty(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
