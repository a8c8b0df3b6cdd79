package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/ports"
)

type stubLoader struct {
	name    string
	records map[string][]domain.ContentRecord
	err     error
}

func (s stubLoader) Name() string { return s.name }

func (s stubLoader) Load(_ context.Context, req Request) ([]domain.ContentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records[req.Location], nil
}

func newTestCatalog(sources ...Request) *Catalog {
	reg := NewRegistry()
	reg.Register(stubLoader{
		name: "memory",
		records: map[string][]domain.ContentRecord{
			"first": {
				{ID: "a", Title: "A from first"},
				{ID: "b", Title: "B"},
			},
			"second": {
				{ID: " a ", Title: "A from second"},
				{ID: "c", Title: "C"},
				{ID: "", Title: "no id"},
				{ID: "", Title: "no id either"},
			},
		},
	})
	reg.Register(stubLoader{name: "broken", err: errors.New("backend down")})
	return NewCatalog(reg, sources, nil)
}

func TestCatalogFetchAllMergesAndDeduplicates(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(
		Request{Name: "one", Loader: "memory", Location: "first"},
		Request{Name: "two", Loader: "memory", Location: "second"},
	)

	records, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	titles := make([]string, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	want := "A from first|B|C|no id|no id either"
	if got := strings.Join(titles, "|"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCatalogFetchByID(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(
		Request{Name: "one", Loader: "memory", Location: "first"},
		Request{Name: "two", Loader: "memory", Location: "second"},
	)

	record, err := c.FetchByID(context.Background(), "c")
	if err != nil {
		t.Fatalf("FetchByID returned error: %v", err)
	}
	if record.Title != "C" {
		t.Fatalf("unexpected record: %+v", record)
	}

	_, err = c.FetchByID(context.Background(), "missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		source  Request
		message string
	}{
		{name: "unknown loader", source: Request{Name: "x", Loader: "ftp"}, message: "loader ftp is not registered"},
		{name: "loader failure", source: Request{Name: "y", Loader: "broken"}, message: "load source y: backend down"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestCatalog(tc.source).FetchAll(context.Background())
			if err == nil || !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("expected error containing %q, got %v", tc.message, err)
			}
		})
	}
}

func TestCatalogHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCatalog(Request{Name: "one", Loader: "memory", Location: "first"}).FetchAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubLoader{name: "yaml"})
	reg.Register(stubLoader{name: "json"})
	reg.Register(stubLoader{name: "html"})

	if got := strings.Join(reg.Names(), ","); got != "html,json,yaml" {
		t.Fatalf("unexpected names: %s", got)
	}
}
