package brief

import (
	"math"
	"sort"
	"time"

	"github.com/akarpov/market-brief/internal/movers"
	"github.com/akarpov/market-brief/pkg/models"
)

// DailyBrief is the assembled product of one analysis run.
// Output formatting (files, dashboards) is handled by consumers.
type DailyBrief struct {
	Date         time.Time                `json:"date"`
	MarketHealth models.MarketHealth      `json:"market_health"`
	Gainers      []models.MoverRecord     `json:"gainers"`
	Losers       []models.MoverRecord     `json:"losers"`
	Summary      movers.Summary           `json:"summary"`
	Categorized  models.RoutedMovements   `json:"categorized"`
	Evaluation   *models.EvaluationRecord `json:"evaluation,omitempty"`
	Weights      models.WeightState       `json:"weights"`
	TopStories   []models.NewsItem        `json:"top_stories"`
}

// Generator assembles daily briefs
type Generator struct {
	storyLimit int
}

// NewGenerator creates new brief generator
func NewGenerator() *Generator {
	return &Generator{storyLimit: 5}
}

// Build assembles the daily brief from the run's products
func (g *Generator) Build(
	date time.Time,
	gainers, losers []models.MoverRecord,
	summary movers.Summary,
	categorized models.RoutedMovements,
	evaluation *models.EvaluationRecord,
	weights models.WeightState,
	news []models.NewsItem,
) *DailyBrief {
	return &DailyBrief{
		Date:         date,
		MarketHealth: movers.Health(gainers, losers),
		Gainers:      gainers,
		Losers:       losers,
		Summary:      summary,
		Categorized:  categorized,
		Evaluation:   evaluation,
		Weights:      weights,
		TopStories:   g.topStories(news),
	}
}

// topStories ranks news by sentiment strength and recency
func (g *Generator) topStories(news []models.NewsItem) []models.NewsItem {
	ranked := make([]models.NewsItem, len(news))
	copy(ranked, news)

	sort.SliceStable(ranked, func(i, j int) bool {
		si := math.Abs(ranked[i].SentimentScore)
		sj := math.Abs(ranked[j].SentimentScore)
		if si != sj {
			return si > sj
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	if len(ranked) > g.storyLimit {
		ranked = ranked[:g.storyLimit]
	}
	return ranked
}
