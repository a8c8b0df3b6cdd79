package files

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/source"
)

// JSONLoader reads a file holding a JSON array of content records.
type JSONLoader struct{}

var _ source.Loader = JSONLoader{}

// Name identifies the loader inside the registry.
func (JSONLoader) Name() string { return "json" }

// Load decodes the file at req.Location.
func (JSONLoader) Load(ctx context.Context, req source.Request) ([]domain.ContentRecord, error) {
	raw, err := readFile(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	var records []domain.ContentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", req.Location, err)
	}
	return records, nil
}

// YAMLLoader reads a file holding a YAML list of content records.
type YAMLLoader struct{}

var _ source.Loader = YAMLLoader{}

// Name identifies the loader inside the registry.
func (YAMLLoader) Name() string { return "yaml" }

// Load decodes the file at req.Location.
func (YAMLLoader) Load(ctx context.Context, req source.Request) ([]domain.ContentRecord, error) {
	raw, err := readFile(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	var records []domain.ContentRecord
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode yaml %s: %w", req.Location, err)
	}
	return records, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("file location is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
