package movers

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpov/market-brief/pkg/logger"
	"github.com/akarpov/market-brief/pkg/models"
)

// sectorMap maps well-known tickers to sectors for the movement summary
var sectorMap = map[string]string{
	"AAPL": "Technology", "MSFT": "Technology", "GOOGL": "Technology",
	"NVDA": "Technology", "AMD": "Technology", "INTC": "Technology",
	"META": "Technology", "AMZN": "Consumer Cyclical", "TSLA": "Consumer Cyclical",
	"JPM": "Financial Services", "BAC": "Financial Services", "V": "Financial Services",
	"WFC": "Financial Services", "JNJ": "Healthcare", "PFE": "Healthcare",
	"MRK": "Healthcare", "WMT": "Consumer Defensive", "NFLX": "Communication Services",
}

// Analyzer identifies significant movers in a daily price snapshot
type Analyzer struct {
	threshold float64
}

// NewAnalyzer creates new mover analyzer.
// Threshold is the percent change beyond which a move is significant.
func NewAnalyzer(threshold float64) *Analyzer {
	return &Analyzer{threshold: threshold}
}

// Identify partitions the snapshot into gainers (sorted by pct change
// descending) and losers (sorted ascending). Rows without a ticker are
// skipped with a warning.
func (a *Analyzer) Identify(rows []models.PriceRow) (gainers, losers []models.MoverRecord) {
	for _, row := range rows {
		if row.Ticker == "" {
			logger.Warn("skipping price row without ticker",
				zap.Float64("pct_change", row.PctChange),
			)
			continue
		}

		switch {
		case row.PctChange >= a.threshold:
			gainers = append(gainers, models.MoverRecord{
				Ticker:    row.Ticker,
				Direction: models.DirectionGainer,
				PctChange: row.PctChange,
				Price:     row.Close,
				Volume:    row.Volume,
			})
		case row.PctChange <= -a.threshold:
			losers = append(losers, models.MoverRecord{
				Ticker:    row.Ticker,
				Direction: models.DirectionLoser,
				PctChange: row.PctChange,
				Price:     row.Close,
				Volume:    row.Volume,
			})
		}
	}

	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].PctChange > gainers[j].PctChange
	})
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].PctChange < losers[j].PctChange
	})

	return gainers, losers
}

// Summary aggregates statistics over the identified movers
type Summary struct {
	TotalGainers    int                `json:"total_gainers"`
	TotalLosers     int                `json:"total_losers"`
	TopGainer       *models.MoverRecord `json:"top_gainer,omitempty"`
	TopLoser        *models.MoverRecord `json:"top_loser,omitempty"`
	AvgGain         float64            `json:"avg_gain"`
	AvgLoss         float64            `json:"avg_loss"`
	GainerVolume    int64              `json:"gainer_volume"`
	LoserVolume     int64              `json:"loser_volume"`
	GainerNotional  decimal.Decimal    `json:"gainer_notional"`
	LoserNotional   decimal.Decimal    `json:"loser_notional"`
	SectorBreakdown map[string]int     `json:"sector_breakdown"`
}

// Summarize builds movement statistics for the brief
func (a *Analyzer) Summarize(gainers, losers []models.MoverRecord) Summary {
	summary := Summary{
		TotalGainers:    len(gainers),
		TotalLosers:     len(losers),
		SectorBreakdown: make(map[string]int),
	}

	if len(gainers) > 0 {
		summary.TopGainer = &gainers[0]
	}
	if len(losers) > 0 {
		summary.TopLoser = &losers[0]
	}

	for _, g := range gainers {
		summary.AvgGain += g.PctChange
		summary.GainerVolume += g.Volume
		summary.GainerNotional = summary.GainerNotional.Add(
			g.Price.Mul(decimal.NewFromInt(g.Volume)))
		summary.SectorBreakdown[sectorOf(g.Ticker)]++
	}
	if len(gainers) > 0 {
		summary.AvgGain /= float64(len(gainers))
	}

	for _, l := range losers {
		summary.AvgLoss += l.PctChange
		summary.LoserVolume += l.Volume
		summary.LoserNotional = summary.LoserNotional.Add(
			l.Price.Mul(decimal.NewFromInt(l.Volume)))
		summary.SectorBreakdown[sectorOf(l.Ticker)]++
	}
	if len(losers) > 0 {
		summary.AvgLoss /= float64(len(losers))
	}

	return summary
}

// Health derives the session tone from the gainer/loser balance
func Health(gainers, losers []models.MoverRecord) models.MarketHealth {
	switch {
	case len(gainers) > len(losers)*2:
		return models.HealthBullish
	case len(losers) > len(gainers)*2:
		return models.HealthBearish
	default:
		return models.HealthMixed
	}
}

func sectorOf(ticker string) string {
	if sector, ok := sectorMap[ticker]; ok {
		return sector
	}
	return "Other"
}
