package models

// NewsArticle is a processed item from the news provider. Not persisted.
type NewsArticle struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	URL           string   `json:"url"`
	Sentiment     float64  `json:"sentiment"`
	SentimentAbs  float64  `json:"sentiment_abs"`
	Industries    []string `json:"industries"`
	TimePublished string   `json:"time_published"`
	FormattedTime string   `json:"formatted_time"`
}
