package ports

import (
	"context"
	"errors"

	"ContentRanker/internal/domain"
)

// ErrNotFound is returned when a record identifier is unknown to a source.
var ErrNotFound = errors.New("content record not found")

// ContentSource exposes the records owned by an external store or fetch layer.
type ContentSource interface {
	FetchAll(ctx context.Context) ([]domain.ContentRecord, error)
	FetchByID(ctx context.Context, id string) (domain.ContentRecord, error)
}

// ContentRepository persists records so later runs can read them back.
type ContentRepository interface {
	ContentSource
	Save(ctx context.Context, record domain.ContentRecord) error
}

// Enhancer attaches purpose classification to raw records.
type Enhancer interface {
	EnhanceOne(record domain.ContentRecord) (domain.EnhancedRecord, error)
	EnhanceMany(records []domain.ContentRecord) ([]domain.EnhancedRecord, error)
	EnhanceConcurrent(ctx context.Context, records []domain.ContentRecord, workers int) ([]domain.EnhancedRecord, error)
}
