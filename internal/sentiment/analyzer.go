package sentiment

import (
	"strings"

	"github.com/akarpov/market-brief/pkg/models"
)

// Labeler classifies a text's sentiment. A model-backed collaborator
// can satisfy this; Analyzer is the keyword fallback used when none is
// configured.
type Labeler interface {
	Label(text string) (models.SentimentLabel, float64)
}

// Analyzer performs keyword-weighted sentiment analysis as a fallback
// when no model-backed sentiment collaborator is available
type Analyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewAnalyzer creates new sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Label analyzes text and returns a sentiment label with a score in
// [-1.0, 1.0]. Empty text is neutral with zero score.
func (a *Analyzer) Label(text string) (models.SentimentLabel, float64) {
	score := a.scoreText(text)
	switch {
	case score > 0.05:
		return models.SentimentPositive, score
	case score < -0.05:
		return models.SentimentNegative, score
	default:
		return models.SentimentNeutral, score
	}
}

// Annotate attaches sentiment labels to a batch of news items in place
func (a *Analyzer) Annotate(items []models.NewsItem) {
	for i := range items {
		label, score := a.Label(items[i].Text())
		items[i].Sentiment = label
		items[i].SentimentScore = score
	}
}

func (a *Analyzer) scoreText(text string) float64 {
	if text == "" {
		return 0.0
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0.0
	}

	var score float64
	matchCount := 0

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")

		if weight, ok := a.positiveWords[word]; ok {
			score += weight
			matchCount++
		}

		if weight, ok := a.negativeWords[word]; ok {
			score -= weight
			matchCount++
		}
	}

	if matchCount == 0 {
		return 0.0
	}

	normalized := score / float64(len(words))

	if normalized > 1.0 {
		normalized = 1.0
	} else if normalized < -1.0 {
		normalized = -1.0
	}

	return normalized
}

// buildPositiveWords returns positive keywords for equity news
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		"rally":       0.9,
		"surge":       0.8,
		"soar":        0.8,
		"soars":       0.8,
		"jump":        0.7,
		"jumps":       0.7,
		"gain":        0.6,
		"gains":       0.6,
		"beat":        0.7,
		"beats":       0.7,
		"exceeds":     0.6,
		"record":      0.6,
		"strong":      0.5,
		"upgrade":     0.6,
		"upgraded":    0.6,
		"outperform":  0.6,
		"growth":      0.5,
		"profit":      0.5,
		"rise":        0.5,
		"rises":       0.5,
		"up":          0.4,
		"positive":    0.5,
		"optimistic":  0.5,
		"bullish":     0.9,
		"dividend":    0.4,
		"buyback":     0.5,
		"partnership": 0.5,
		"approval":    0.6,
	}
}

// buildNegativeWords returns negative keywords for equity news
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		"crash":         1.0,
		"plunge":        0.8,
		"plunges":       0.8,
		"tumble":        0.7,
		"tumbles":       0.7,
		"slump":         0.7,
		"fall":          0.6,
		"falls":         0.6,
		"drop":          0.6,
		"drops":         0.6,
		"decline":       0.6,
		"miss":          0.7,
		"misses":        0.7,
		"loss":          0.6,
		"losses":        0.6,
		"weak":          0.5,
		"downgrade":     0.6,
		"downgraded":    0.6,
		"underperform":  0.6,
		"down":          0.4,
		"negative":      0.5,
		"pessimistic":   0.5,
		"bearish":       0.9,
		"lawsuit":       0.7,
		"investigation": 0.6,
		"recall":        0.6,
		"bankruptcy":    1.0,
		"fraud":         1.0,
		"selloff":       0.7,
		"warning":       0.5,
	}
}
