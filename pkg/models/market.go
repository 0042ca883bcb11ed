package models

import "github.com/shopspring/decimal"

// PriceRow represents one ticker's daily change from a market snapshot
type PriceRow struct {
	Ticker    string          `json:"ticker"`
	PctChange float64         `json:"pct_change"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// MarketHealth represents the overall tone of the session
type MarketHealth string

const (
	HealthBullish MarketHealth = "bullish"
	HealthBearish MarketHealth = "bearish"
	HealthMixed   MarketHealth = "mixed"
)
