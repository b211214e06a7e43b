package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const maxSnippetLength = 280

type rssNewsRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	parser *gofeed.Parser
	now    func() time.Time
}

// NewRSSNewsRepository creates a NewsRepository reading a per-ticker RSS search feed.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: cfg.News.Timeout}
	fp.UserAgent = "chart-insight-bot/1.0"
	return &rssNewsRepository{
		cfg:    cfg,
		log:    log,
		parser: fp,
		now:    time.Now,
	}
}

func (r *rssNewsRepository) GetHeadlines(ctx context.Context, ticker string) ([]dto.Headline, error) {
	feedURL := fmt.Sprintf(r.cfg.News.FeedURL, url.QueryEscape(ticker))

	ctx, cancel := context.WithTimeout(ctx, r.cfg.News.Timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil || items[j].PublishedParsed == nil {
			return items[i].PublishedParsed != nil
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	cutoff := r.now().Add(-r.cfg.News.MaxAge)
	headlines := make([]dto.Headline, 0, r.cfg.News.MaxHeadlines)
	for _, item := range items {
		if len(headlines) >= r.cfg.News.MaxHeadlines {
			break
		}
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}
		title, source := splitHeadlineSource(item.Title)
		h := dto.Headline{
			Title:   title,
			Source:  source,
			Snippet: truncateRunes(htmlToText(item.Description), maxSnippetLength),
		}
		if item.PublishedParsed != nil {
			h.PublishedAt = *item.PublishedParsed
		}
		headlines = append(headlines, h)
	}

	r.log.DebugContext(ctx, "Fetched news headlines",
		logger.StringField("ticker", ticker),
		logger.IntField("count", len(headlines)),
	)
	return headlines, nil
}

// splitHeadlineSource splits aggregator titles of the form "Headline - Publisher".
func splitHeadlineSource(title string) (string, string) {
	title = strings.TrimSpace(title)
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func htmlToText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
