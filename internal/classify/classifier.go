package classify

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/text/cases"

	"ContentRanker/internal/domain"
)

// Weights holds the indicator weights every category uses.
type Weights struct {
	TypeHint float64 `yaml:"typeHint"`
	Keyword  float64 `yaml:"keyword"`
	Payload  float64 `yaml:"payload"`
}

// Config tunes the classifier. Zero values are replaced by DefaultConfig values.
type Config struct {
	Weights            Weights                     `yaml:"weights"`
	MinConfidence      float64                     `yaml:"minConfidence"`
	FallbackConfidence float64                     `yaml:"fallbackConfidence"`
	Keywords           map[domain.Purpose][]string `yaml:"keywords"`
}

// DefaultConfig returns the stock indicator table.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			TypeHint: 3,
			Keyword:  2,
			Payload:  3,
		},
		MinConfidence:      0.2,
		FallbackConfidence: 0.1,
		Keywords: map[domain.Purpose][]string{
			domain.PurposeTool:   {"tool", "toolkit", "template", "worksheet", "checklist", "guide", "framework", "resource"},
			domain.PurposeUpdate: {"update", "newsletter", "announcement", "news", "release", "bulletin"},
			domain.PurposeStory:  {"story", "journey", "reflection", "experience", "voices"},
			domain.PurposeEvent:  {"event", "workshop", "webinar", "conference", "session", "register"},
		},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Weights.TypeHint <= 0 {
		c.Weights.TypeHint = def.Weights.TypeHint
	}
	if c.Weights.Keyword <= 0 {
		c.Weights.Keyword = def.Weights.Keyword
	}
	if c.Weights.Payload <= 0 {
		c.Weights.Payload = def.Weights.Payload
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = def.MinConfidence
	}
	if c.FallbackConfidence <= 0 {
		c.FallbackConfidence = def.FallbackConfidence
	}
	if len(c.Keywords) == 0 {
		c.Keywords = def.Keywords
	}
	return c
}

// Classifier assigns purpose categories to content records. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	cfg      Config
	keywords map[domain.Purpose]map[string]struct{}
	validate *validator.Validate
}

// New builds a classifier from cfg.
func New(cfg Config) *Classifier {
	cfg = cfg.withDefaults()

	fold := cases.Fold()
	keywords := make(map[domain.Purpose]map[string]struct{}, len(cfg.Keywords))
	for purpose, words := range cfg.Keywords {
		if !purpose.Valid() || purpose == domain.PurposeGeneral {
			continue
		}
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.TrimSpace(fold.String(w))
			if w != "" {
				set[w] = struct{}{}
			}
		}
		keywords[purpose] = set
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("classify: register notblank validation: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Classifier{cfg: cfg, keywords: keywords, validate: v}
}

// Validate checks the fields a record needs before it can be classified.
func (c *Classifier) Validate(record domain.ContentRecord) error {
	err := c.validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate content record: %w", err)
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if !containsString(missing, fe.Field()) {
			missing = append(missing, fe.Field())
		}
	}
	return &domain.ValidationError{RecordID: strings.TrimSpace(record.ID), Fields: missing}
}

// Classify returns the primary and secondary purposes of record with the
// confidence of the primary pick.
func (c *Classifier) Classify(record domain.ContentRecord) (domain.Classification, error) {
	if err := c.Validate(record); err != nil {
		return domain.Classification{}, err
	}

	tokens := tokenize(record.Title + "\n" + record.Description)
	hint, _ := domain.ParsePurpose(record.Hints.Type)

	type categoryScore struct {
		purpose    domain.Purpose
		score      float64
		confidence float64
	}

	priority := domain.Priority()
	scores := make([]categoryScore, 0, len(priority))
	for _, purpose := range priority {
		score := c.aggregate(purpose, record, tokens, hint)
		scores = append(scores, categoryScore{
			purpose:    purpose,
			score:      score,
			confidence: clamp01(score / c.maxScore(purpose)),
		})
	}

	// strict comparison keeps the earlier category on ties
	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}

	if best.confidence <= c.cfg.MinConfidence {
		return domain.Classification{
			Primary:    domain.PurposeGeneral,
			Secondary:  []domain.Purpose{},
			Confidence: clamp01(c.cfg.FallbackConfidence),
		}, nil
	}

	secondary := make([]domain.Purpose, 0, len(scores)-1)
	for _, s := range scores {
		if s.purpose == best.purpose {
			continue
		}
		if s.confidence > c.cfg.MinConfidence {
			secondary = append(secondary, s.purpose)
		}
	}

	return domain.Classification{
		Primary:    best.purpose,
		Secondary:  secondary,
		Confidence: best.confidence,
	}, nil
}

func (c *Classifier) aggregate(purpose domain.Purpose, record domain.ContentRecord, tokens map[string]struct{}, hint domain.Purpose) float64 {
	var score float64
	if hint == purpose {
		score += c.cfg.Weights.TypeHint
	}
	if c.matchesKeyword(purpose, tokens) {
		score += c.cfg.Weights.Keyword
	}
	if hasPayload(purpose, record.Hints) {
		score += c.cfg.Weights.Payload
	}
	return score
}

// maxScore is the best aggregate a category can reach with every indicator matched.
func (c *Classifier) maxScore(purpose domain.Purpose) float64 {
	total := c.cfg.Weights.TypeHint
	if len(c.keywords[purpose]) > 0 {
		total += c.cfg.Weights.Keyword
	}
	if purpose != domain.PurposeGeneral {
		total += c.cfg.Weights.Payload
	}
	return total
}

func (c *Classifier) matchesKeyword(purpose domain.Purpose, tokens map[string]struct{}) bool {
	for word := range c.keywords[purpose] {
		if _, ok := tokens[word]; ok {
			return true
		}
	}
	return false
}

func hasPayload(purpose domain.Purpose, hints domain.Hints) bool {
	switch purpose {
	case domain.PurposeTool:
		return hints.Tool != nil
	case domain.PurposeUpdate:
		return hints.Update != nil
	case domain.PurposeStory:
		return hints.Story != nil
	case domain.PurposeEvent:
		return hints.Event != nil
	default:
		return false
	}
}

func tokenize(text string) map[string]struct{} {
	folded := cases.Fold().String(text)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
