package storage

import (
	"context"
	"fmt"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/source"
)

// Loader exposes a SQLite database as a catalog source. req.Location is the database path.
type Loader struct{}

var _ source.Loader = Loader{}

// Name identifies the loader inside the registry.
func (Loader) Name() string { return "sqlite" }

// Load opens the database, reads every record and closes it again.
func (Loader) Load(ctx context.Context, req source.Request) (records []domain.ContentRecord, err error) {
	repo, err := Open(req.Location)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close sqlite db: %w", closeErr)
		}
	}()

	return repo.FetchAll(ctx)
}
