package classify

import (
	"github.com/akarpov/market-brief/internal/adapters/config"
	"github.com/akarpov/market-brief/internal/signal"
	"github.com/akarpov/market-brief/pkg/models"
)

// Classifier assigns a probable cause category to a price movement
// based on keyword signals in its related news
type Classifier struct {
	vocabs signal.Vocabularies
	cfg    *config.ClassifierConfig
}

// NewClassifier creates new movement classifier
func NewClassifier(vocabs signal.Vocabularies, cfg *config.ClassifierConfig) *Classifier {
	return &Classifier{
		vocabs: vocabs,
		cfg:    cfg,
	}
}

// Classify determines the most likely cause of a stock movement.
// Zero related news yields category unknown with zero confidence.
// The returned confidence is always in [0,1].
func (c *Classifier) Classify(
	ticker string,
	direction models.Direction,
	pctChange float64,
	relatedNews []models.NewsItem,
	weights models.WeightState,
) models.MovementClassification {
	result := models.MovementClassification{
		Ticker:     ticker,
		Direction:  direction,
		PctChange:  pctChange,
		Category:   models.CategoryUnknown,
		Confidence: 0.0,
		Reasons:    []models.Reason{},
	}

	totalEarnings := 0
	totalMacro := 0

	for i := range relatedNews {
		item := &relatedNews[i]
		text := item.Text()

		earningsScore := c.vocabs.Earnings.Score(text)
		macroScore := c.vocabs.Macro.Score(text)

		if earningsScore > 0 || macroScore > 0 {
			source := item.Source
			if source == "" {
				source = "Unknown"
			}
			result.Reasons = append(result.Reasons, models.Reason{
				Headline:      item.Title,
				Source:        source,
				EarningsScore: earningsScore,
				MacroScore:    macroScore,
				PublishedAt:   item.PublishedAt,
			})
			totalEarnings += earningsScore
			totalMacro += macroScore
		}
	}

	if len(result.Reasons) == 0 {
		return result
	}

	earnings := float64(totalEarnings)
	macro := float64(totalMacro)

	switch {
	case earnings > macro*c.cfg.DominanceRatio:
		result.Category = models.CategoryEarnings
		result.Confidence = min(1.0, earnings/c.cfg.ConfidenceDivisor)
	case macro > earnings*c.cfg.DominanceRatio:
		result.Category = models.CategoryMacro
		result.Confidence = min(1.0, macro/c.cfg.ConfidenceDivisor)
	default:
		// Neither signal dominates by the configured margin
		result.Category = models.CategoryNews
		result.Confidence = min(c.cfg.MixedNewsCap, max(earnings, macro)/c.cfg.ConfidenceDivisor)
	}

	// Bias confidence by the learned category weight, clipped back to [0,1]
	result.Confidence = min(1.0, result.Confidence*weights.Get(result.Category))

	return result
}
