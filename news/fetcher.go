// Package news pulls market news with sentiment scores from the Alpha
// Vantage NEWS_SENTIMENT feed, caches responses on disk and filters them
// to the industries a user watches.
package news

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"newsdesk/models"
)

const (
	apiBaseURL   = "https://www.alphavantage.co/query"
	fetchWindow  = 7 * 24 * time.Hour
	fetchLimit   = 500
	requestLimit = 10 * time.Second
)

// feedResponse mirrors the provider's JSON. Note and Information carry
// rate-limit and error messages instead of data.
type feedResponse struct {
	Feed []feedItem `json:"feed"`

	Note        string `json:"Note"`
	Information string `json:"Information"`
}

type feedItem struct {
	Title                 string      `json:"title"`
	Summary               string      `json:"summary"`
	URL                   string      `json:"url"`
	TimePublished         string      `json:"time_published"`
	OverallSentimentScore float64     `json:"overall_sentiment_score"`
	Topics                []feedTopic `json:"topics"`
}

type feedTopic struct {
	Topic string `json:"topic"`
}

// Fetcher retrieves and caches news articles.
type Fetcher struct {
	client *resty.Client
	cache  *fileCache
	apiKey string
	log    *logrus.Entry
}

func NewFetcher(apiKey, cacheFile string, cacheTTL time.Duration, log *logrus.Entry) *Fetcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(requestLimit).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Fetcher{
		client: client,
		cache:  newFileCache(cacheFile, cacheTTL),
		apiKey: apiKey,
		log:    log,
	}
}

// SetBaseURL points the fetcher at a different endpoint. Used by tests.
func (f *Fetcher) SetBaseURL(url string) { f.client.SetBaseURL(url) }

// Articles returns the current article set: fresh cache if available,
// otherwise a provider fetch. When the provider rate-limits, a stale cache
// is better than nothing and is returned with a warning.
func (f *Fetcher) Articles() ([]models.NewsArticle, error) {
	if articles, ok := f.cache.Load(); ok {
		return articles, nil
	}

	articles, err := f.fetch()
	if err != nil {
		if stale, ok := f.cache.LoadStale(); ok {
			f.log.WithError(err).Warn("news fetch failed, serving stale cache")
			return stale, nil
		}
		return nil, err
	}

	if err := f.cache.Store(articles); err != nil {
		f.log.WithError(err).Warn("news cache write failed")
	}
	return articles, nil
}

func (f *Fetcher) fetch() ([]models.NewsArticle, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("news provider api key is not configured")
	}

	var body feedResponse
	resp, err := f.client.R().
		SetQueryParams(map[string]string{
			"function":  "NEWS_SENTIMENT",
			"apikey":    f.apiKey,
			"limit":     fmt.Sprintf("%d", fetchLimit),
			"time_from": time.Now().Add(-fetchWindow).UTC().Format("20060102T1504"),
			"sort":      "LATEST",
		}).
		SetResult(&body).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("news provider returned %s", resp.Status())
	}
	if body.Note != "" {
		return nil, fmt.Errorf("news provider rate limit: %s", body.Note)
	}
	if body.Information != "" {
		return nil, fmt.Errorf("news provider: %s", body.Information)
	}

	articles := make([]models.NewsArticle, 0, len(body.Feed))
	for _, item := range body.Feed {
		articles = append(articles, models.NewsArticle{
			Title:         item.Title,
			Summary:       item.Summary,
			URL:           item.URL,
			Sentiment:     item.OverallSentimentScore,
			SentimentAbs:  abs(item.OverallSentimentScore),
			Industries:    topicsToIndustries(item.Topics),
			TimePublished: item.TimePublished,
			FormattedTime: formatPublished(item.TimePublished),
		})
	}
	return articles, nil
}

// ForIndustries filters articles to the given industries (or a free-text
// search term when set) and ranks them: strongest sentiment first, newest
// first within equal strength. An empty result falls back to placeholders so
// the dashboard never renders blank.
func (f *Fetcher) ForIndustries(industries []string, search string) ([]models.NewsArticle, error) {
	articles, err := f.Articles()
	if err != nil {
		f.log.WithError(err).Warn("news unavailable, using placeholders")
		return placeholderArticles(industries), nil
	}

	var filtered []models.NewsArticle
	if search != "" {
		filtered = filterBySearch(articles, search)
	} else {
		filtered = filterByIndustries(articles, industries)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].SentimentAbs != filtered[j].SentimentAbs {
			return filtered[i].SentimentAbs > filtered[j].SentimentAbs
		}
		return filtered[i].TimePublished > filtered[j].TimePublished
	})

	if len(filtered) == 0 {
		return placeholderArticles(industries), nil
	}
	return filtered, nil
}

func filterBySearch(articles []models.NewsArticle, search string) []models.NewsArticle {
	needle := strings.ToLower(search)
	var out []models.NewsArticle
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Summary), needle) {
			out = append(out, a)
		}
	}
	return out
}

func filterByIndustries(articles []models.NewsArticle, industries []string) []models.NewsArticle {
	if len(industries) == 0 {
		return articles
	}
	var out []models.NewsArticle
	for _, a := range articles {
		if articleMatches(a, industries) {
			out = append(out, a)
		}
	}
	return out
}

// articleMatches checks the provider topics plus per-industry keyword lists
// against the article text. Topic labels rarely line up with bank industry
// names exactly, so both directions of substring match are tried.
func articleMatches(a models.NewsArticle, industries []string) bool {
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)

	for _, ind := range industries {
		lind := strings.ToLower(ind)

		for _, topic := range a.Industries {
			ltopic := strings.ToLower(topic)
			if strings.Contains(ltopic, lind) || strings.Contains(lind, ltopic) {
				return true
			}
		}

		for _, kw := range industryKeywords(lind) {
			if strings.Contains(title, kw) || strings.Contains(summary, kw) {
				return true
			}
		}
	}
	return false
}

// industryKeywords expands an industry name into the search terms actually
// seen in headlines.
func industryKeywords(industry string) []string {
	kws := []string{industry}
	switch industry {
	case "healthcare":
		kws = append(kws, "health", "hospital", "pharma", "medical", "drug")
	case "technology":
		kws = append(kws, "tech", "software", "semiconductor", "chip")
	case "energy":
		kws = append(kws, "oil", "gas", "solar", "renewable", "power")
	case "financials":
		kws = append(kws, "bank", "finance", "lending", "insurance")
	case "ai":
		kws = append(kws, "artificial intelligence", "machine learning", "llm")
	case "biotech":
		kws = append(kws, "biotechnology", "clinical trial", "fda")
	case "mining":
		kws = append(kws, "mine", "gold", "copper", "lithium")
	case "real estate":
		kws = append(kws, "property", "reit", "housing")
	}
	return kws
}

func topicsToIndustries(topics []feedTopic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Topic)
	}
	return out
}

// formatPublished converts the provider's 20240315T093045 stamp to a
// readable form; unparseable stamps pass through untouched.
func formatPublished(ts string) string {
	t, err := time.Parse("20060102T150405", ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 2006 15:04")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// placeholderArticles keeps the dashboard populated when the provider is
// down or rate-limited and no cache exists.
func placeholderArticles(industries []string) []models.NewsArticle {
	label := "your industries"
	if len(industries) > 0 {
		label = strings.Join(industries, ", ")
	}
	now := time.Now()
	return []models.NewsArticle{
		{
			Title:         "News feed temporarily unavailable",
			Summary:       fmt.Sprintf("Live coverage for %s will resume once the provider connection is restored.", label),
			Sentiment:     0,
			Industries:    industries,
			TimePublished: now.Format("20060102T150405"),
			FormattedTime: now.Format("Jan 2, 2006 15:04"),
		},
	}
}
