package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-chart-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSSNewsRepositoryGetHeadlines(t *testing.T) {
	now := time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)
	rfc := func(d time.Duration) string { return now.Add(-d).Format(time.RFC1123Z) }

	feed := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>AAPL stock</title>
<item><title>Older news - Bloomberg</title><pubDate>%s</pubDate><description>old</description></item>
<item><title>Apple unveils new chips - Reuters</title><pubDate>%s</pubDate><description>&lt;a href="x"&gt;Apple&lt;/a&gt; unveils   chips</description></item>
<item><title>Apple stock hits record</title><pubDate>%s</pubDate></item>
<item><title>Stale story - CNBC</title><pubDate>%s</pubDate></item>
</channel></rss>`, rfc(10*time.Hour), rfc(time.Hour), rfc(2*time.Hour), rfc(200*time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	repo := NewRSSNewsRepository(testConfig(srv.URL), logger.NewNop()).(*rssNewsRepository)
	repo.now = func() time.Time { return now }

	headlines, err := repo.GetHeadlines(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, headlines, 2)

	assert.Equal(t, "Apple unveils new chips", headlines[0].Title)
	assert.Equal(t, "Reuters", headlines[0].Source)
	assert.Equal(t, "Apple unveils chips", headlines[0].Snippet)
	assert.Equal(t, "Apple stock hits record", headlines[1].Title)
	assert.Empty(t, headlines[1].Source)
}

func TestRSSNewsRepositoryFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewRSSNewsRepository(testConfig(srv.URL), logger.NewNop())
	_, err := repo.GetHeadlines(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestSplitHeadlineSource(t *testing.T) {
	title, source := splitHeadlineSource("Fed holds rates - Up - The Wall Street Journal")
	assert.Equal(t, "Fed holds rates - Up", title)
	assert.Equal(t, "The Wall Street Journal", source)
}
