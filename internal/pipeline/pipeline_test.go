package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akarpov/market-brief/internal/adapters/config"
	"github.com/akarpov/market-brief/internal/adapters/feed"
	"github.com/akarpov/market-brief/internal/classify"
	"github.com/akarpov/market-brief/internal/movers"
	"github.com/akarpov/market-brief/internal/perf"
	"github.com/akarpov/market-brief/internal/signal"
	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeFeed(t *testing.T, dir string, prices []map[string]interface{}, news []map[string]interface{}) {
	t.Helper()
	for name, v := range map[string]interface{}{
		"prices.json": prices,
		"news.json":   news,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestPipeline(t *testing.T, feedDir, dataDir string) *Pipeline {
	t.Helper()

	cfg := &config.ClassifierConfig{
		DominanceRatio:    1.5,
		ConfidenceDivisor: 5.0,
		MixedNewsCap:      0.7,
	}
	classifier := classify.NewClassifier(signal.DefaultVocabularies(), cfg)

	return New(Config{
		Market:     feed.NewLocalFeed(feedDir),
		News:       feed.NewLocalFeed(feedDir),
		Analyzer:   movers.NewAnalyzer(2.0),
		Router:     classify.NewRouter(classifier),
		Store:      perf.NewFileStore(dataDir, 100),
		HistoryCap: 100,
	})
}

func TestPipeline_RunOnce(t *testing.T) {
	feedDir := t.TempDir()
	dataDir := t.TempDir()
	ctx := context.Background()

	writeFeed(t, feedDir,
		[]map[string]interface{}{
			{"ticker": "AAPL", "pct_change": 5.2, "close": "230.10", "volume": 1000000},
			{"ticker": "MSFT", "pct_change": 0.4, "close": "415.00", "volume": 800000},
			{"ticker": "JPM", "pct_change": -3.1, "close": "198.70", "volume": 600000},
		},
		[]map[string]interface{}{
			{
				"title":   "Apple beats earnings estimates with record quarterly revenue",
				"source":  "Newswire",
				"tickers": []string{"AAPL"},
			},
			{
				"title":   "Banks slide as Fed signals prolonged high interest rate policy",
				"source":  "Newswire",
				"tickers": []string{"JPM"},
			},
		},
	)

	p := newTestPipeline(t, feedDir, dataDir)

	daily, err := p.RunOnce(ctx)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	if len(daily.Gainers) != 1 || daily.Gainers[0].Ticker != "AAPL" {
		t.Errorf("expected AAPL as sole gainer, got %+v", daily.Gainers)
	}
	if len(daily.Losers) != 1 || daily.Losers[0].Ticker != "JPM" {
		t.Errorf("expected JPM as sole loser, got %+v", daily.Losers)
	}
	if daily.Evaluation != nil {
		t.Error("first run has no prior predictions, evaluation must be nil")
	}
	if len(daily.Categorized[models.CategoryEarnings]) != 1 {
		t.Errorf("expected AAPL classified as earnings, got %+v", daily.Categorized)
	}
	if len(daily.Categorized[models.CategoryMacro]) != 1 {
		t.Errorf("expected JPM classified as macro, got %+v", daily.Categorized)
	}
	if daily.Summary.TotalGainers != 1 || daily.Summary.TotalLosers != 1 {
		t.Errorf("unexpected summary counts: %+v", daily.Summary)
	}
	if len(daily.TopStories) != 2 {
		t.Errorf("expected 2 top stories, got %d", len(daily.TopStories))
	}

	// Next run evaluates the persisted classifications
	writeFeed(t, feedDir,
		[]map[string]interface{}{
			{"ticker": "AAPL", "pct_change": 4.8, "close": "241.10", "volume": 900000},
			{"ticker": "JPM", "pct_change": -1.2, "close": "196.30", "volume": 500000},
		},
		[]map[string]interface{}{},
	)

	second, err := p.RunOnce(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.Evaluation == nil {
		t.Fatal("second run must evaluate the prior predictions")
	}
	// AAPL predicted +5.2 actual +4.8 (TP), JPM predicted -3.1 actual -1.2 (TN, uncounted)
	if second.Evaluation.TruePositives != 1 {
		t.Errorf("expected TP=1, got %d", second.Evaluation.TruePositives)
	}
	if second.Evaluation.Accuracy != 1.0 {
		t.Errorf("expected accuracy 1.0, got %.3f", second.Evaluation.Accuracy)
	}
	if len(second.Evaluation.Details) != 2 {
		t.Errorf("expected 2 evaluated items, got %d", len(second.Evaluation.Details))
	}

	// Both categories were fully correct so both weights land at the maximum
	if got := second.Weights.Get(models.CategoryEarnings); got < 1.49 || got > 1.51 {
		t.Errorf("expected earnings weight 1.5 after correct prediction, got %.3f", got)
	}
}

func TestPipeline_RunOnceNoMarketData(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), t.TempDir())

	if _, err := p.RunOnce(context.Background()); err == nil {
		t.Fatal("missing price snapshot must abort the run")
	}
}

func TestPipeline_RunOnceNewsUnavailable(t *testing.T) {
	feedDir := t.TempDir()
	writeFeed(t, feedDir,
		[]map[string]interface{}{
			{"ticker": "TSLA", "pct_change": 6.0, "close": "250.40", "volume": 2500000},
		},
		nil,
	)
	// remove the news file so Fetch fails
	if err := os.Remove(filepath.Join(feedDir, "news.json")); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, feedDir, t.TempDir())

	daily, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("news failure must not abort the run: %v", err)
	}
	if len(daily.Categorized[models.CategoryUnknown]) != 1 {
		t.Errorf("mover without news must land in unknown, got %+v", daily.Categorized)
	}
}

func TestPipeline_PersistsPendingAcrossRuns(t *testing.T) {
	feedDir := t.TempDir()
	dataDir := t.TempDir()
	ctx := context.Background()

	writeFeed(t, feedDir,
		[]map[string]interface{}{
			{"ticker": "NVDA", "pct_change": 3.3, "close": "118.20", "volume": 5000000},
		},
		[]map[string]interface{}{},
	)

	first := newTestPipeline(t, feedDir, dataDir)
	if _, err := first.RunOnce(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// A fresh pipeline over the same data dir sees the pending state
	loaded, err := perf.NewFileStore(dataDir, 100).Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Pending == nil || loaded.Pending.Total() != 1 {
		t.Fatalf("expected 1 pending classification, got %+v", loaded.Pending)
	}
	if loaded.Pending[models.CategoryUnknown][0].Ticker != "NVDA" {
		t.Errorf("unexpected pending item: %+v", loaded.Pending)
	}
}
