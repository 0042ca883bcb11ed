package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akarpov/market-brief/internal/adapters/feed"
	"github.com/akarpov/market-brief/internal/brief"
	"github.com/akarpov/market-brief/internal/classify"
	"github.com/akarpov/market-brief/internal/evaluate"
	"github.com/akarpov/market-brief/internal/movers"
	"github.com/akarpov/market-brief/internal/perf"
	"github.com/akarpov/market-brief/internal/sentiment"
	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/metrics"
	"github.com/akarpov/market-brief/pkg/models"
)

// Pipeline runs one full daily cycle: identify movers, evaluate the
// prior run's predictions, reweight, classify today's movers and
// assemble the brief. One run completes before the next begins.
type Pipeline struct {
	market     feed.MarketData
	news       feed.NewsSource
	analyzer   *movers.Analyzer
	router     *classify.Router
	evaluator  *evaluate.Evaluator
	sentiment  *sentiment.Analyzer
	generator  *brief.Generator
	store      perf.Store
	buffer     *metrics.Buffer // optional
	historyCap int
	now        func() time.Time
}

// Config bundles the pipeline's collaborators
type Config struct {
	Market     feed.MarketData
	News       feed.NewsSource
	Analyzer   *movers.Analyzer
	Router     *classify.Router
	Store      perf.Store
	Buffer     *metrics.Buffer
	HistoryCap int
}

// New creates new daily pipeline
func New(cfg Config) *Pipeline {
	return &Pipeline{
		market:     cfg.Market,
		news:       cfg.News,
		analyzer:   cfg.Analyzer,
		router:     cfg.Router,
		evaluator:  evaluate.NewEvaluator(),
		sentiment:  sentiment.NewAnalyzer(),
		generator:  brief.NewGenerator(),
		store:      cfg.Store,
		buffer:     cfg.Buffer,
		historyCap: cfg.HistoryCap,
		now:        time.Now,
	}
}

// RunOnce executes a single daily cycle and returns the brief.
// Persistence failures degrade to in-memory state; only missing market
// data aborts the run.
func (p *Pipeline) RunOnce(ctx context.Context) (*brief.DailyBrief, error) {
	rows, err := p.market.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market snapshot: %w", err)
	}

	actual := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row.Ticker != "" {
			actual[row.Ticker] = row.PctChange
		}
	}

	snap, err := p.store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load performance state, starting fresh", zap.Error(err))
		snap = perf.NewSnapshot()
	}

	gainers, losers := p.analyzer.Identify(rows)
	logger.Info("significant movers identified",
		zap.Int("gainers", len(gainers)),
		zap.Int("losers", len(losers)),
	)

	// Evaluate the previous run's classifications against today's moves
	var evaluation *models.EvaluationRecord
	if snap.Pending != nil && snap.Pending.Total() > 0 {
		rec := p.evaluator.Evaluate(snap.Pending, actual)
		snap.Metrics.Observe(&rec)
		snap.AppendHistory(rec, p.historyCap)
		snap.Weights = evaluate.Optimize(snap.History, snap.Weights)
		evaluation = &rec

		p.record(&metrics.EvaluationMetric{
			Timestamp:      rec.Timestamp,
			TruePositives:  rec.TruePositives,
			FalsePositives: rec.FalsePositives,
			FalseNegatives: rec.FalseNegatives,
			Accuracy:       rec.Accuracy,
			Precision:      rec.Precision,
			Recall:         rec.Recall,
			F1Score:        rec.F1Score,
		})
	}

	news, err := p.fetchNews(ctx, gainers, losers)
	if err != nil {
		logger.Warn("news unavailable, classifying without signals", zap.Error(err))
		news = nil
	}
	p.sentiment.Annotate(news)

	all := make([]models.MoverRecord, 0, len(gainers)+len(losers))
	all = append(all, gainers...)
	all = append(all, losers...)

	routed := p.router.Route(all, news, snap.Weights)

	for _, category := range models.AllCategories {
		for _, item := range routed[category] {
			p.record(&metrics.ClassificationMetric{
				Timestamp:  p.now().UTC(),
				Ticker:     item.Ticker,
				Direction:  string(item.Direction),
				Category:   string(item.Category),
				PctChange:  item.PctChange,
				Confidence: item.Confidence,
				Reasons:    len(item.Reasons),
			})
		}
	}

	snap.Pending = routed
	if err := p.store.Save(ctx, snap); err != nil {
		logger.Error("failed to persist performance state", zap.Error(err))
		// Run continues with in-memory results only
	}

	summary := p.analyzer.Summarize(gainers, losers)

	return p.generator.Build(
		p.now(),
		gainers, losers,
		summary,
		routed,
		evaluation,
		snap.Weights,
		news,
	), nil
}

// fetchNews retrieves news for the top movers (3 gainers, 2 losers)
func (p *Pipeline) fetchNews(ctx context.Context, gainers, losers []models.MoverRecord) ([]models.NewsItem, error) {
	var tickers []string
	for i, g := range gainers {
		if i == 3 {
			break
		}
		tickers = append(tickers, g.Ticker)
	}
	for i, l := range losers {
		if i == 2 {
			break
		}
		tickers = append(tickers, l.Ticker)
	}
	if len(tickers) == 0 {
		return nil, nil
	}

	return p.news.Fetch(ctx, tickers)
}

func (p *Pipeline) record(m metrics.Metric) {
	if p.buffer == nil {
		return
	}
	if err := p.buffer.Add(m); err != nil {
		logger.Warn("failed to buffer metric", zap.Error(err))
	}
}
