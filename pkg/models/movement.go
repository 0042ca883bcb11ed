package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents the side of a significant price move
type Direction string

const (
	DirectionGainer Direction = "gainer"
	DirectionLoser  Direction = "loser"
)

// Category represents the inferred cause bucket for a movement
type Category string

const (
	CategoryEarnings Category = "earnings"
	CategoryMacro    Category = "macro"
	CategoryNews     Category = "news"
	CategoryUnknown  Category = "unknown"
)

// AllCategories lists every category in stable iteration order
var AllCategories = []Category{
	CategoryEarnings,
	CategoryMacro,
	CategoryNews,
	CategoryUnknown,
}

// ParseCategory converts a raw string to a Category, falling back to unknown
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryEarnings, CategoryMacro, CategoryNews:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// MoverRecord represents a single significant mover from a market snapshot
type MoverRecord struct {
	Ticker    string          `json:"ticker" db:"ticker"`
	Direction Direction       `json:"direction" db:"direction"`
	PctChange float64         `json:"pct_change" db:"pct_change"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Volume    int64           `json:"volume" db:"volume"`
}

// Reason represents a news item that contributed signal to a classification
type Reason struct {
	Headline      string    `json:"headline"`
	Source        string    `json:"source"`
	EarningsScore int       `json:"earnings_score"`
	MacroScore    int       `json:"macro_score"`
	PublishedAt   time.Time `json:"published_at"`
}

// MovementClassification represents the classifier's verdict for one mover.
// Confidence is always in [0,1]; Reasons is empty when no signal fired.
type MovementClassification struct {
	Ticker     string    `json:"ticker"`
	Direction  Direction `json:"direction"`
	PctChange  float64   `json:"pct_change"`
	Category   Category  `json:"category"`
	Confidence float64   `json:"confidence"`
	Reasons    []Reason  `json:"reasons"`
}

// RoutedMovements maps each category to its classified movers.
// Every category key is always present, possibly with an empty slice.
type RoutedMovements map[Category][]MovementClassification

// NewRoutedMovements creates routed movements with all buckets initialized
func NewRoutedMovements() RoutedMovements {
	routed := make(RoutedMovements, len(AllCategories))
	for _, c := range AllCategories {
		routed[c] = []MovementClassification{}
	}
	return routed
}

// Total returns the item count across all buckets
func (rm RoutedMovements) Total() int {
	total := 0
	for _, items := range rm {
		total += len(items)
	}
	return total
}
