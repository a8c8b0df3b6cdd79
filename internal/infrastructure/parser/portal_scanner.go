package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"ContentRanker/internal/domain"
	"ContentRanker/internal/source"
)

const (
	defaultMaxPages = 10
	maxPagesOption  = "maxPages"
)

// PortalScanner crawls portal listing pages and extracts one content record
// per element carrying a data-content-id attribute.
type PortalScanner struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ source.Loader = (*PortalScanner)(nil)

// NewPortalScanner wires an HTTP client and a request rate. rps <= 0 disables pacing.
func NewPortalScanner(client *http.Client, rps float64, logger *slog.Logger) *PortalScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &PortalScanner{client: client, limiter: limiter, logger: logger}
}

// Name identifies the loader inside the registry.
func (p *PortalScanner) Name() string {
	return "html"
}

// Load walks the listing starting at req.Location, following rel="next" links.
func (p *PortalScanner) Load(ctx context.Context, req source.Request) ([]domain.ContentRecord, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("no listing url provided for source %s", req.Name)
	}

	maxPages := defaultMaxPages
	if v, ok := req.Options[maxPagesOption]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("source %s: invalid %s %q", req.Name, maxPagesOption, v)
		}
		maxPages = n
	}

	results := make([]domain.ContentRecord, 0)
	seen := map[string]struct{}{}
	visited := map[string]struct{}{}

	pageURL := req.Location
	for page := 0; page < maxPages && pageURL != ""; page++ {
		if _, ok := visited[pageURL]; ok {
			break
		}
		visited[pageURL] = struct{}{}

		doc, err := p.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", pageURL, err)
		}

		for _, record := range extractRecords(doc, pageURL) {
			if record.ID != "" {
				if _, ok := seen[record.ID]; ok {
					continue
				}
				seen[record.ID] = struct{}{}
			}
			results = append(results, record)
		}

		next, err := nextPageURL(doc, pageURL)
		if err != nil {
			return nil, err
		}
		p.debug("listing page scanned", "source", req.Name, "page", page+1, "records", len(results))
		pageURL = next
	}

	return results, nil
}

func (p *PortalScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ContentRanker/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portal returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractRecords(doc *goquery.Document, pageURL string) []domain.ContentRecord {
	var collected []domain.ContentRecord
	doc.Find("[data-content-id]").Each(func(_ int, sel *goquery.Selection) {
		collected = append(collected, parseEntry(sel, pageURL))
	})
	return collected
}

func parseEntry(sel *goquery.Selection, pageURL string) domain.ContentRecord {
	id, _ := sel.Attr("data-content-id")

	record := domain.ContentRecord{
		ID:          strings.TrimSpace(id),
		Title:       collapse(sel.Find(".content-title").First().Text()),
		Description: collapse(sel.Find(".content-summary").First().Text()),
	}

	if dt, ok := sel.Find("time[datetime]").First().Attr("datetime"); ok {
		record.PublishedAt = parseDate(dt)
	}

	if src, ok := sel.Find("img").First().Attr("src"); ok {
		record.Thumbnail = resolveURL(pageURL, src)
	}

	sel.Find(".content-author").Each(func(_ int, a *goquery.Selection) {
		if name := collapse(a.Text()); name != "" {
			record.Authors = append(record.Authors, name)
		}
	})

	sel.Find("[data-theme-id]").Each(func(_ int, t *goquery.Selection) {
		themeID, _ := t.Attr("data-theme-id")
		if themeID = strings.TrimSpace(themeID); themeID != "" {
			record.Themes = append(record.Themes, domain.Theme{ID: themeID, Name: collapse(t.Text())})
		}
	})

	sel.Find("[data-topic-id]").Each(func(_ int, t *goquery.Selection) {
		topicID, _ := t.Attr("data-topic-id")
		if topicID = strings.TrimSpace(topicID); topicID != "" {
			record.Topics = append(record.Topics, domain.Topic{ID: topicID, Name: collapse(t.Text())})
		}
	})

	record.Hints = parseHints(sel)
	return record
}

func parseHints(sel *goquery.Selection) domain.Hints {
	var hints domain.Hints
	hints.Type = strings.TrimSpace(sel.AttrOr("data-content-type", ""))

	toolType, hasToolType := sel.Attr("data-tool-type")
	audience, hasAudience := sel.Attr("data-audience")
	if hasToolType || hasAudience {
		hints.Tool = &domain.ToolHints{
			ToolType:              strings.TrimSpace(toolType),
			TargetAudience:        splitList(audience),
			ImplementationContext: strings.TrimSpace(sel.AttrOr("data-implementation-context", "")),
			Prerequisites:         splitList(sel.AttrOr("data-prerequisites", "")),
		}
	}

	updateType, hasUpdateType := sel.Attr("data-update-type")
	publisher, hasPublisher := sel.Attr("data-publisher")
	if hasUpdateType || hasPublisher {
		update := &domain.UpdateHints{
			UpdateType:   strings.TrimSpace(updateType),
			Publisher:    strings.TrimSpace(publisher),
			CallToAction: collapse(sel.Find(".content-cta").First().Text()),
		}
		sel.Find(".content-highlight").Each(func(_ int, h *goquery.Selection) {
			if text := collapse(h.Text()); text != "" {
				update.Highlights = append(update.Highlights, text)
			}
		})
		hints.Update = update
	}

	if storyteller, ok := sel.Attr("data-storyteller"); ok {
		hints.Story = &domain.StoryHints{
			Storyteller: strings.TrimSpace(storyteller),
			Location:    strings.TrimSpace(sel.AttrOr("data-location", "")),
		}
	}

	if startsAt, ok := sel.Attr("data-starts-at"); ok {
		hints.Event = &domain.EventHints{
			StartsAt:        parseDate(startsAt),
			Venue:           strings.TrimSpace(sel.AttrOr("data-venue", "")),
			RegistrationURL: strings.TrimSpace(sel.AttrOr("data-registration-url", "")),
		}
	}

	return hints
}

func nextPageURL(doc *goquery.Document, current string) (string, error) {
	href, ok := doc.Find(`a[rel="next"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", nil
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid page url %s: %w", current, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid next link %s: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func resolveURL(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (p *PortalScanner) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
