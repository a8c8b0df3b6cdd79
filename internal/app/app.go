package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"ContentRanker/internal/classify"
	"ContentRanker/internal/config"
	"ContentRanker/internal/enhance"
	"ContentRanker/internal/infrastructure/files"
	"ContentRanker/internal/infrastructure/parser"
	"ContentRanker/internal/infrastructure/storage"
	"ContentRanker/internal/logging"
	"ContentRanker/internal/relevance"
	"ContentRanker/internal/source"
	"ContentRanker/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg     config.Config
	service *usecase.Service
	logger  *slog.Logger
}

// RelatedOptions controls the related command.
type RelatedOptions struct {
	ID      string
	Limit   int
	JSON    bool
	Explain bool
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := source.NewRegistry()
	registry.Register(files.JSONLoader{})
	registry.Register(files.YAMLLoader{})
	registry.Register(storage.Loader{})
	registry.Register(parser.NewPortalScanner(nil, cfg.HTML.RequestsPerSecond, baseLogger.With("component", "loader.html")))

	catalog := source.NewCatalog(registry, cfg.SourceRequests(), baseLogger.With("component", "catalog"))

	enhancer := enhance.New(classify.New(cfg.Classifier))
	ranker := relevance.NewRanker(relevance.NewScorer(cfg.Scoring), cfg.Ranking.DefaultLimit)

	service := usecase.NewService(usecase.ServiceDeps{
		Source:   catalog,
		Enhancer: enhancer,
		Ranker:   ranker,
		Logger:   baseLogger.With("component", "service"),
		Workers:  cfg.Workers,
	})
	return &Application{cfg: cfg, service: service, logger: baseLogger}
}

// Related writes the related items of opts.ID to out.
func (a *Application) Related(ctx context.Context, out io.Writer, opts RelatedOptions) error {
	result, err := a.service.Related(ctx, opts.ID, opts.Limit)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(out, result)
	}
	_, err = io.WriteString(out, usecase.BuildRelatedMessage(result, opts.Explain))
	return err
}

// Classify writes the classification of one record to out.
func (a *Application) Classify(ctx context.Context, out io.Writer, id string, asJSON bool) error {
	record, err := a.service.Classify(ctx, id)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, record)
	}
	_, err = fmt.Fprintln(out, usecase.BuildRecordMessage(record))
	return err
}

// List writes every enhanced catalog record to out.
func (a *Application) List(ctx context.Context, out io.Writer, asJSON bool) error {
	records, err := a.service.List(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, records)
	}
	_, err = io.WriteString(out, usecase.BuildListMessage(records))
	return err
}

// Import copies the catalog into the SQLite store at dbPath (or the configured path).
func (a *Application) Import(ctx context.Context, out io.Writer, dbPath string) (err error) {
	if dbPath == "" {
		dbPath = a.cfg.Storage.Path
	}
	repo, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	n, err := a.service.Import(ctx, repo)
	if err != nil {
		return err
	}
	a.logger.Info("catalog imported", "records", n, "db", dbPath)
	_, err = fmt.Fprintf(out, "imported %d records into %s\n", n, dbPath)
	return err
}

func writeJSON(out io.Writer, v any) error {
	payload, err := usecase.BuildJSON(v)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = out.Write(payload)
	return err
}
