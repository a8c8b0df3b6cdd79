package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/ports"
)

// Catalog implements ports.ContentSource over every configured source.
// Records keep source order; the first occurrence of an ID wins.
type Catalog struct {
	registry *Registry
	sources  []Request
	logger   *slog.Logger
}

var _ ports.ContentSource = (*Catalog)(nil)

// NewCatalog wires the loader registry with config-defined sources.
func NewCatalog(reg *Registry, sources []Request, log *slog.Logger) *Catalog {
	return &Catalog{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchAll loads every configured source and merges the results.
func (c *Catalog) FetchAll(ctx context.Context) ([]domain.ContentRecord, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("loader registry is not configured")
	}

	c.debug("fetch all", "sources", len(c.sources))

	var (
		aggregated []domain.ContentRecord
		seen       = map[string]struct{}{}
	)
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loader, err := c.registry.Resolve(src.Loader)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		records, err := loader.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", src.Name, err)
		}

		added := 0
		for _, record := range records {
			id := strings.TrimSpace(record.ID)
			if id != "" {
				if _, dup := seen[id]; dup {
					c.debug("skip duplicate record", "source", src.Name, "id", id)
					continue
				}
				seen[id] = struct{}{}
			}
			aggregated = append(aggregated, record)
			added++
		}
		c.debug("source produced records", "source", src.Name, "loader", src.Loader, "count", added)
	}

	c.debug("catalog done", "total_records", len(aggregated))
	return aggregated, nil
}

// FetchByID returns the record with the given identifier.
func (c *Catalog) FetchByID(ctx context.Context, id string) (domain.ContentRecord, error) {
	records, err := c.FetchAll(ctx)
	if err != nil {
		return domain.ContentRecord{}, err
	}
	id = strings.TrimSpace(id)
	for _, record := range records {
		if strings.TrimSpace(record.ID) == id {
			return record, nil
		}
	}
	return domain.ContentRecord{}, fmt.Errorf("record %s: %w", id, ports.ErrNotFound)
}

func (c *Catalog) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
