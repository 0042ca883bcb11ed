package models

import "time"

// SentimentLabel represents a sentiment verdict for a text
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// NewsItem represents single news item mapped to the tickers it mentions
type NewsItem struct {
	PublishedAt    time.Time      `json:"published_at" db:"published_at"`
	Title          string         `json:"title" db:"title"`
	Source         string         `json:"source" db:"source"`
	Description    string         `json:"description" db:"description"`
	Content        string         `json:"content" db:"content"`
	URL            string         `json:"url" db:"url"`
	Tickers        []string       `json:"tickers" db:"tickers"`
	Sentiment      SentimentLabel `json:"sentiment,omitempty"`
	SentimentScore float64        `json:"sentiment_score,omitempty"`
}

// Mentions reports whether the item mentions the given ticker
func (n *NewsItem) Mentions(ticker string) bool {
	for _, t := range n.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// Text returns the concatenated searchable text of the item
func (n *NewsItem) Text() string {
	return n.Title + " " + n.Description + " " + n.Content
}
