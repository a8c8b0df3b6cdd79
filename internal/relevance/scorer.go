package relevance

import (
	"time"

	"ContentRanker/internal/domain"
)

// Weights is the additive scoring table. DefaultWeights holds the portal's
// hand-tuned values; config may override them.
type Weights struct {
	SharedTheme     float64 `yaml:"sharedTheme"`
	SharedTopic     float64 `yaml:"sharedTopic"`
	ToolTypeMatch   float64 `yaml:"toolTypeMatch"`
	UpdateTypeMatch float64 `yaml:"updateTypeMatch"`
	AudienceOverlap float64 `yaml:"audienceOverlap"`
	Recency         Recency `yaml:"recency"`
}

// Recency maps the day distance between two update dates to a bonus.
type Recency struct {
	Within30Days  float64 `yaml:"within30Days"`
	Within90Days  float64 `yaml:"within90Days"`
	Within180Days float64 `yaml:"within180Days"`
}

// DefaultWeights returns the stock scoring table.
func DefaultWeights() Weights {
	return Weights{
		SharedTheme:     10,
		SharedTopic:     5,
		ToolTypeMatch:   8,
		UpdateTypeMatch: 10,
		AudienceOverlap: 5,
		Recency: Recency{
			Within30Days:  5,
			Within90Days:  3,
			Within180Days: 1,
		},
	}
}

// Breakdown lists the contribution of every signal to one score.
type Breakdown struct {
	Themes    float64 `json:"themes"`
	Topics    float64 `json:"topics"`
	TypeMatch float64 `json:"typeMatch"`
	Audience  float64 `json:"audience"`
	Recency   float64 `json:"recency"`
}

// Total sums all contributions.
func (b Breakdown) Total() float64 {
	return b.Themes + b.Topics + b.TypeMatch + b.Audience + b.Recency
}

// Scorer computes the relevance of a candidate to a focal record.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score returns the unbounded, non-negative relevance of candidate to focal.
func (s *Scorer) Score(focal, candidate domain.EnhancedRecord) float64 {
	return s.Explain(focal, candidate).Total()
}

// Explain returns the per-signal contributions behind Score.
func (s *Scorer) Explain(focal, candidate domain.EnhancedRecord) Breakdown {
	w := s.weights
	b := Breakdown{
		Themes: w.SharedTheme * float64(countShared(focal.Themes, candidate.Themes, themeID)),
		Topics: w.SharedTopic * float64(countShared(focal.Topics, candidate.Topics, topicID)),
	}

	// family bonuses only apply when both records share the primary purpose
	if focal.PrimaryPurpose != candidate.PrimaryPurpose {
		return b
	}

	switch focal.PrimaryPurpose {
	case domain.PurposeTool:
		ft, fok := focal.Tool()
		ct, cok := candidate.Tool()
		if !fok || !cok {
			return b
		}
		if ft.ToolType != "" && ft.ToolType == ct.ToolType {
			b.TypeMatch = w.ToolTypeMatch
		}
		b.Audience = w.AudienceOverlap * float64(countShared(ft.TargetAudience, ct.TargetAudience, identity))
	case domain.PurposeUpdate:
		fu, fok := focal.Update()
		cu, cok := candidate.Update()
		if fok && cok && fu.UpdateType != "" && fu.UpdateType == cu.UpdateType {
			b.TypeMatch = w.UpdateTypeMatch
		}
		b.Recency = w.Recency.bonus(focal.PublishedAt, candidate.PublishedAt)
	}
	return b
}

func (r Recency) bonus(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	days := DayDistance(a, b)
	switch {
	case days < 30:
		return r.Within30Days
	case days < 90:
		return r.Within90Days
	case days < 180:
		return r.Within180Days
	default:
		return 0
	}
}

// DayDistance is the absolute number of whole days between a and b. It works
// on Unix seconds because time.Duration saturates beyond roughly 292 years.
func DayDistance(a, b time.Time) int {
	secs := a.Unix() - b.Unix()
	if secs < 0 {
		secs = -secs
	}
	return int(secs / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func themeID(t domain.Theme) string { return t.ID }
func topicID(t domain.Topic) string { return t.ID }
func identity(v string) string      { return v }

// countShared counts distinct non-empty keys present in both a and b.
func countShared[T any](a, b []T, key func(T) string) int {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		if k := key(v); k != "" {
			set[k] = struct{}{}
		}
	}
	n := 0
	for _, v := range b {
		k := key(v)
		if _, ok := set[k]; !ok {
			continue
		}
		delete(set, k)
		n++
	}
	return n
}
