package relevance

import (
	"sort"

	"ContentRanker/internal/domain"
)

// DefaultLimit is used when Rank is called with a non-positive limit.
const DefaultLimit = 3

// Scored pairs a candidate with its relevance to the focal record.
type Scored struct {
	Record domain.EnhancedRecord `json:"record"`
	Score  float64               `json:"score"`
}

// Ranker orders a candidate pool by relevance to a focal record.
type Ranker struct {
	scorer       *Scorer
	defaultLimit int
}

// NewRanker wires a scorer. defaultLimit <= 0 falls back to DefaultLimit.
func NewRanker(scorer *Scorer, defaultLimit int) *Ranker {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Ranker{scorer: scorer, defaultLimit: defaultLimit}
}

// Scorer exposes the scorer used for ranking.
func (r *Ranker) Scorer() *Scorer {
	return r.scorer
}

// Rank scores every candidate except the focal record itself, sorts by score
// descending keeping pool order on ties, and returns at most limit entries.
func (r *Ranker) Rank(focal domain.EnhancedRecord, pool []domain.EnhancedRecord, limit int) []Scored {
	if limit <= 0 {
		limit = r.defaultLimit
	}

	scored := make([]Scored, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == focal.ID {
			continue
		}
		scored = append(scored, Scored{
			Record: candidate,
			Score:  r.scorer.Score(focal, candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
