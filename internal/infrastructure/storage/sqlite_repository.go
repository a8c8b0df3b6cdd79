package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS content_records (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	published_at INTEGER,
	thumbnail    TEXT NOT NULL DEFAULT '',
	authors      TEXT NOT NULL DEFAULT '[]',
	hints        TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS content_themes (
	record_id TEXT NOT NULL REFERENCES content_records(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	theme_id  TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (record_id, position)
);
CREATE TABLE IF NOT EXISTS content_topics (
	record_id TEXT NOT NULL REFERENCES content_records(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	topic_id  TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (record_id, position)
);`

var recordColumns = []string{"id", "title", "description", "published_at", "thumbnail", "authors", "hints"}

// SQLiteRepository persists content records into a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ContentRepository = (*SQLiteRepository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database handle.
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save upserts the record together with its themes and topics.
func (r *SQLiteRepository) Save(ctx context.Context, record domain.ContentRecord) error {
	if r.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("record id is required")
	}

	authors, err := json.Marshal(nonNil(record.Authors))
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	hints, err := json.Marshal(record.Hints)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}

	var publishedAt any
	if !record.PublishedAt.IsZero() {
		publishedAt = record.PublishedAt.UTC().UnixMilli()
	}

	upsert, args, err := sq.Insert("content_records").
		Columns(recordColumns...).
		Values(id, record.Title, record.Description, publishedAt, record.Thumbnail, string(authors), string(hints)).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			published_at = excluded.published_at,
			thumbnail = excluded.thumbnail,
			authors = excluded.authors,
			hints = excluded.hints`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
		return fmt.Errorf("upsert record %s: %w", id, err)
	}

	if err := replaceTags(ctx, tx, "content_themes", "theme_id", id, themePairs(record.Themes)); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, "content_topics", "topic_id", id, topicPairs(record.Topics)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record %s: %w", id, err)
	}
	return nil
}

// FetchAll returns every stored record in insertion order.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]domain.ContentRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	records, err := r.queryRecords(ctx, sq.Select(recordColumns...).From("content_records").OrderBy("rowid"))
	if err != nil {
		return nil, err
	}

	themes, err := r.queryTags(ctx, sq.Select("record_id", "theme_id", "name").From("content_themes").OrderBy("record_id", "position"))
	if err != nil {
		return nil, err
	}
	topics, err := r.queryTags(ctx, sq.Select("record_id", "topic_id", "name").From("content_topics").OrderBy("record_id", "position"))
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Themes = toThemes(themes[records[i].ID])
		records[i].Topics = toTopics(topics[records[i].ID])
	}
	return records, nil
}

// FetchByID returns one record or ports.ErrNotFound.
func (r *SQLiteRepository) FetchByID(ctx context.Context, id string) (domain.ContentRecord, error) {
	if r.db == nil {
		return domain.ContentRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)

	records, err := r.queryRecords(ctx, sq.Select(recordColumns...).From("content_records").Where(sq.Eq{"id": id}))
	if err != nil {
		return domain.ContentRecord{}, err
	}
	if len(records) == 0 {
		return domain.ContentRecord{}, fmt.Errorf("record %s: %w", id, ports.ErrNotFound)
	}
	record := records[0]

	themes, err := r.queryTags(ctx, sq.Select("record_id", "theme_id", "name").From("content_themes").Where(sq.Eq{"record_id": id}).OrderBy("position"))
	if err != nil {
		return domain.ContentRecord{}, err
	}
	topics, err := r.queryTags(ctx, sq.Select("record_id", "topic_id", "name").From("content_topics").Where(sq.Eq{"record_id": id}).OrderBy("position"))
	if err != nil {
		return domain.ContentRecord{}, err
	}
	record.Themes = toThemes(themes[id])
	record.Topics = toTopics(topics[id])
	return record, nil
}

func (r *SQLiteRepository) queryRecords(ctx context.Context, builder sq.SelectBuilder) ([]domain.ContentRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build record query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var result []domain.ContentRecord
	for rows.Next() {
		var (
			record      domain.ContentRecord
			publishedAt sql.NullInt64
			authors     string
			hints       string
		)
		if err := rows.Scan(&record.ID, &record.Title, &record.Description, &publishedAt, &record.Thumbnail, &authors, &hints); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if publishedAt.Valid {
			record.PublishedAt = time.UnixMilli(publishedAt.Int64).UTC()
		}
		if err := json.Unmarshal([]byte(authors), &record.Authors); err != nil {
			return nil, fmt.Errorf("decode authors of %s: %w", record.ID, err)
		}
		if len(record.Authors) == 0 {
			record.Authors = nil
		}
		if err := json.Unmarshal([]byte(hints), &record.Hints); err != nil {
			return nil, fmt.Errorf("decode hints of %s: %w", record.ID, err)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

type tag struct {
	id   string
	name string
}

func (r *SQLiteRepository) queryTags(ctx context.Context, builder sq.SelectBuilder) (map[string][]tag, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tag query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]tag)
	for rows.Next() {
		var recordID string
		var t tag
		if err := rows.Scan(&recordID, &t.id, &t.name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		result[recordID] = append(result[recordID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, table, column, recordID string, tags []tag) error {
	del, args, err := sq.Delete(table).Where(sq.Eq{"record_id": recordID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear %s for %s: %w", table, recordID, err)
	}
	if len(tags) == 0 {
		return nil
	}

	insert := sq.Insert(table).Columns("record_id", "position", column, "name")
	for i, t := range tags {
		insert = insert.Values(recordID, i, t.id, t.name)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s for %s: %w", table, recordID, err)
	}
	return nil
}

func themePairs(themes []domain.Theme) []tag {
	out := make([]tag, 0, len(themes))
	for _, t := range themes {
		out = append(out, tag{id: t.ID, name: t.Name})
	}
	return out
}

func topicPairs(topics []domain.Topic) []tag {
	out := make([]tag, 0, len(topics))
	for _, t := range topics {
		out = append(out, tag{id: t.ID, name: t.Name})
	}
	return out
}

func toThemes(tags []tag) []domain.Theme {
	if len(tags) == 0 {
		return nil
	}
	out := make([]domain.Theme, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Theme{ID: t.id, Name: t.name})
	}
	return out
}

func toTopics(tags []tag) []domain.Topic {
	if len(tags) == 0 {
		return nil
	}
	out := make([]domain.Topic, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Topic{ID: t.id, Name: t.name})
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
