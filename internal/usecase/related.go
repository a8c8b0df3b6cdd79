package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/ports"
	"ContentRanker/internal/relevance"
)

// ServiceDeps wires the adapters and core components into the use case.
type ServiceDeps struct {
	Source   ports.ContentSource
	Enhancer ports.Enhancer
	Ranker   *relevance.Ranker
	Logger   *slog.Logger
	Workers  int
}

// Service implements the related-items workflow: fetch, enhance, rank.
type Service struct {
	source   ports.ContentSource
	enhancer ports.Enhancer
	ranker   *relevance.Ranker
	logger   *slog.Logger
	workers  int
}

// RelatedItem is one ranked candidate with the signals behind its score.
type RelatedItem struct {
	relevance.Scored
	Breakdown relevance.Breakdown `json:"breakdown"`
}

// RelatedResult is the answer to a related-items query.
type RelatedResult struct {
	Focal domain.EnhancedRecord `json:"focal"`
	Items []RelatedItem         `json:"items"`
}

// NewService constructs the use case.
func NewService(deps ServiceDeps) *Service {
	return &Service{
		source:   deps.Source,
		enhancer: deps.Enhancer,
		ranker:   deps.Ranker,
		logger:   deps.Logger,
		workers:  deps.Workers,
	}
}

// Related ranks the catalog against the record identified by focalID.
func (s *Service) Related(ctx context.Context, focalID string, limit int) (RelatedResult, error) {
	if err := s.ready(); err != nil {
		return RelatedResult{}, err
	}
	if s.ranker == nil {
		return RelatedResult{}, fmt.Errorf("ranker is not configured")
	}

	enhanced, err := s.List(ctx)
	if err != nil {
		return RelatedResult{}, err
	}

	focalID = strings.TrimSpace(focalID)
	var (
		focal domain.EnhancedRecord
		found bool
	)
	for _, record := range enhanced {
		if record.ID == focalID {
			focal, found = record, true
			break
		}
	}
	if !found {
		return RelatedResult{}, fmt.Errorf("focal record %s: %w", focalID, ports.ErrNotFound)
	}

	ranked := s.ranker.Rank(focal, enhanced, limit)
	items := make([]RelatedItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, RelatedItem{
			Scored:    r,
			Breakdown: s.ranker.Scorer().Explain(focal, r.Record),
		})
	}

	s.debug("related ranked", "focal", focalID, "purpose", focal.PrimaryPurpose, "candidates", len(enhanced)-1, "returned", len(items))
	return RelatedResult{Focal: focal, Items: items}, nil
}

// Classify enhances the single record identified by id.
func (s *Service) Classify(ctx context.Context, id string) (domain.EnhancedRecord, error) {
	if err := s.ready(); err != nil {
		return domain.EnhancedRecord{}, err
	}

	record, err := s.source.FetchByID(ctx, id)
	if err != nil {
		return domain.EnhancedRecord{}, fmt.Errorf("fetch record: %w", err)
	}

	enhanced, err := s.enhancer.EnhanceOne(record)
	if err != nil {
		return domain.EnhancedRecord{}, fmt.Errorf("enhance record %s: %w", id, err)
	}
	return enhanced, nil
}

// List enhances every record in the catalog, preserving catalog order.
func (s *Service) List(ctx context.Context) ([]domain.EnhancedRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	records, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	enhanced, err := s.enhancer.EnhanceConcurrent(ctx, records, s.workers)
	if err != nil {
		return nil, fmt.Errorf("enhance catalog: %w", err)
	}

	s.debug("catalog enhanced", "records", len(enhanced), "purposes", countPurposes(enhanced))
	return enhanced, nil
}

// Import copies every catalog record into repo and returns how many were saved.
// Records are validated first so the store never holds unclassifiable rows.
func (s *Service) Import(ctx context.Context, repo ports.ContentRepository) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if repo == nil {
		return 0, fmt.Errorf("repository is not configured")
	}

	records, err := s.source.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}
	if _, err := s.enhancer.EnhanceMany(records); err != nil {
		return 0, fmt.Errorf("validate catalog: %w", err)
	}

	for i, record := range records {
		if err := repo.Save(ctx, record); err != nil {
			return i, fmt.Errorf("save record %s: %w", record.ID, err)
		}
	}

	s.debug("catalog imported", "records", len(records))
	return len(records), nil
}

func (s *Service) ready() error {
	if s.source == nil {
		return fmt.Errorf("content source is not configured")
	}
	if s.enhancer == nil {
		return fmt.Errorf("enhancer is not configured")
	}
	return nil
}

func countPurposes(records []domain.EnhancedRecord) map[domain.Purpose]int {
	counts := make(map[domain.Purpose]int, len(domain.Priority()))
	for _, r := range records {
		counts[r.PrimaryPurpose]++
	}
	return counts
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
