package classify

import (
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// Router applies the classifier to every significant mover and
// partitions the results into per-category buckets
type Router struct {
	classifier *Classifier
}

// NewRouter creates new movement router
func NewRouter(classifier *Classifier) *Router {
	return &Router{classifier: classifier}
}

// Route classifies all movers against the news set.
// The result always contains every category key; bucket order follows
// input mover order. Movers without a ticker are skipped with a warning.
func (r *Router) Route(
	movers []models.MoverRecord,
	news []models.NewsItem,
	weights models.WeightState,
) models.RoutedMovements {
	routed := models.NewRoutedMovements()

	for _, mover := range movers {
		if mover.Ticker == "" {
			logger.Warn("skipping mover without ticker",
				zap.String("direction", string(mover.Direction)),
				zap.Float64("pct_change", mover.PctChange),
			)
			continue
		}

		related := relatedNews(mover.Ticker, news)

		analysis := r.classifier.Classify(
			mover.Ticker,
			mover.Direction,
			mover.PctChange,
			related,
			weights,
		)

		routed[analysis.Category] = append(routed[analysis.Category], analysis)
	}

	logger.Debug("movements routed",
		zap.Int("movers", len(movers)),
		zap.Int("earnings", len(routed[models.CategoryEarnings])),
		zap.Int("macro", len(routed[models.CategoryMacro])),
		zap.Int("news", len(routed[models.CategoryNews])),
		zap.Int("unknown", len(routed[models.CategoryUnknown])),
	)

	return routed
}

// relatedNews selects items that mention the ticker
func relatedNews(ticker string, news []models.NewsItem) []models.NewsItem {
	var related []models.NewsItem
	for i := range news {
		if news[i].Mentions(ticker) {
			related = append(related, news[i])
		}
	}
	return related
}
