package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

const (
	pricesFile = "prices.json"
	newsFile   = "news.json"
)

// MarketData supplies the daily price snapshot
type MarketData interface {
	Snapshot(ctx context.Context) ([]models.PriceRow, error)
}

// NewsSource supplies news items for the given tickers
type NewsSource interface {
	Fetch(ctx context.Context, tickers []string) ([]models.NewsItem, error)
}

// LocalFeed reads the daily snapshot and news from JSON files dropped
// into a feed directory by the retrieval collaborators
type LocalFeed struct {
	dir string
}

// NewLocalFeed creates new file-based feed
func NewLocalFeed(dir string) *LocalFeed {
	return &LocalFeed{dir: dir}
}

// Snapshot reads the daily price rows
func (f *LocalFeed) Snapshot(_ context.Context) ([]models.PriceRow, error) {
	path := filepath.Join(f.dir, pricesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price snapshot: %w", err)
	}

	var rows []models.PriceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price snapshot: %w", err)
	}

	logger.Debug("price snapshot loaded",
		zap.String("file", path),
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}

// Fetch reads the news file, filtered to items mentioning any of the
// given tickers; with no tickers all items are returned
func (f *LocalFeed) Fetch(_ context.Context, tickers []string) ([]models.NewsItem, error) {
	path := filepath.Join(f.dir, newsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read news feed: %w", err)
	}

	var items []models.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	if len(tickers) == 0 {
		return items, nil
	}

	wanted := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		wanted[t] = true
	}

	filtered := make([]models.NewsItem, 0, len(items))
	for i := range items {
		for _, t := range items[i].Tickers {
			if wanted[t] {
				filtered = append(filtered, items[i])
				break
			}
		}
	}

	return filtered, nil
}
