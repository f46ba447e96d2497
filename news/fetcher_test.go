package news

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

func feedJSON(items string) string {
	return fmt.Sprintf(`{"feed": [%s]}`, items)
}

const sampleFeed = `
{"title": "Hospital operator beats earnings", "summary": "Strong quarter for the health system.",
 "url": "https://example.com/1", "time_published": "20240315T090000",
 "overall_sentiment_score": 0.42, "topics": [{"topic": "Healthcare"}]},
{"title": "Chipmaker cuts forecast", "summary": "Semiconductor demand is softening.",
 "url": "https://example.com/2", "time_published": "20240315T100000",
 "overall_sentiment_score": -0.61, "topics": [{"topic": "Technology"}]},
{"title": "Utility rates steady", "summary": "Regulator holds tariffs flat.",
 "url": "https://example.com/3", "time_published": "20240315T110000",
 "overall_sentiment_score": 0.05, "topics": [{"topic": "Utilities"}]}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cacheFile := filepath.Join(t.TempDir(), "news_cache.json")
	f := NewFetcher("test-key", cacheFile, 15*time.Minute, nil)
	f.SetBaseURL(srv.URL)
	return f
}

func TestArticlesFetchAndCache(t *testing.T) {
	calls := 0
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("function"); got != "NEWS_SENTIMENT" {
			t.Errorf("function = %q", got)
		}
		if r.URL.Query().Get("apikey") == "" {
			t.Error("missing apikey")
		}
		fmt.Fprint(w, feedJSON(sampleFeed))
	})

	articles, err := f.Articles()
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}
	if articles[1].SentimentAbs != 0.61 {
		t.Errorf("SentimentAbs = %v, want 0.61", articles[1].SentimentAbs)
	}

	// second call must come from the cache
	if _, err := f.Articles(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("provider called %d times, want 1", calls)
	}
}

func TestRateLimitFallsBackToStaleCache(t *testing.T) {
	limited := false
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if limited {
			fmt.Fprint(w, `{"Note": "API call frequency exceeded"}`)
			return
		}
		fmt.Fprint(w, feedJSON(sampleFeed))
	})

	if _, err := f.Articles(); err != nil {
		t.Fatal(err)
	}

	// expire the cache, then rate-limit the provider
	limited = true
	f.cache.ttl = 0

	articles, err := f.Articles()
	if err != nil {
		t.Fatalf("stale cache should mask the rate limit, got %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d stale articles, want 3", len(articles))
	}
}

func TestForIndustriesFiltersAndRanks(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedJSON(sampleFeed))
	})

	articles, err := f.ForIndustries([]string{"Healthcare", "Technology"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	// strongest sentiment first
	if articles[0].SentimentAbs < articles[1].SentimentAbs {
		t.Error("articles not ranked by absolute sentiment")
	}
}

func TestForIndustriesKeywordMatch(t *testing.T) {
	// topic says nothing, but the headline mentions a keyword
	feed := `
{"title": "New drug approval expected", "summary": "FDA decision due this month.",
 "url": "https://example.com/x", "time_published": "20240315T120000",
 "overall_sentiment_score": 0.3, "topics": [{"topic": "Markets"}]}`
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedJSON(feed))
	})

	articles, err := f.ForIndustries([]string{"Healthcare"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].Title != "New drug approval expected" {
		t.Fatalf("keyword match failed: %+v", articles)
	}
}

func TestForIndustriesSearchOverridesIndustries(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedJSON(sampleFeed))
	})

	articles, err := f.ForIndustries([]string{"Healthcare"}, "tariffs")
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].Title != "Utility rates steady" {
		t.Fatalf("search override failed: %+v", articles)
	}
}

func TestForIndustriesPlaceholderWhenProviderDown(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	articles, err := f.ForIndustries([]string{"Energy"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) == 0 {
		t.Fatal("expected placeholder articles")
	}
	if articles[0].Title != "News feed temporarily unavailable" {
		t.Errorf("unexpected placeholder %q", articles[0].Title)
	}
}

func TestFormatPublished(t *testing.T) {
	if got := formatPublished("20240315T093045"); got != "Mar 15, 2024 09:30" {
		t.Errorf("formatPublished = %q", got)
	}
	if got := formatPublished("garbage"); got != "garbage" {
		t.Errorf("unparseable stamp should pass through, got %q", got)
	}
}
